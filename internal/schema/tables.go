package schema

import "github.com/hd9319/ecommerce-app/internal/storage"

// ElectronicsTable is the provisioning shape of the product table. Quantity
// starts at the unknown sentinel and is overwritten by the inventory merge;
// Nullable columns are the ones the transform chain may legitimately leave
// empty.
func ElectronicsTable() []storage.ColumnSpec {
	return []storage.ColumnSpec{
		{Name: "id", Identity: true},
		{Name: "Brand", Type: TypeText},
		{Name: "PartNumber", Type: TypeText},
		{Name: "Category", Type: TypeText},
		{Name: "ImageUrl", Type: TypeText},
		{Name: "RegularPrice", Type: TypeFloat, Nullable: true},
		{Name: "SalePrice", Type: TypeFloat},
		{Name: "Description", Type: TypeText, Nullable: true},
		{Name: "CustomerRating", Type: TypeFloat},
		{Name: "CustomerRatingCount", Type: TypeInt},
		{Name: "CustomerReviewCount", Type: TypeInt},
		{Name: "SourceUrl", Type: TypeText, Nullable: true},
		{Name: "Quantity", Type: TypeInt, Default: "99999"},
		{Name: "CreatedOn", Type: "timestamp", Default: "CURRENT_TIMESTAMP"},
	}
}

// InventoryTable is the provisioning shape of the supplier inventory table.
func InventoryTable() []storage.ColumnSpec {
	return []storage.ColumnSpec{
		{Name: "id", Identity: true},
		{Name: "Brand", Type: TypeText},
		{Name: "PartNumber", Type: TypeText},
		{Name: "Quantity", Type: TypeInt},
		{Name: "Discontinued", Type: TypeInt, Default: "0"},
		{Name: "Source", Type: TypeText, Nullable: true},
		{Name: "CreatedOn", Type: "timestamp", Default: "CURRENT_TIMESTAMP"},
	}
}

// BrandsTable is the provisioning shape of the brand lookup table seeded
// after each successful product load.
func BrandsTable() []storage.ColumnSpec {
	return []storage.ColumnSpec{
		{Name: "BrandID", Identity: true},
		{Name: "Name", Type: TypeText},
		{Name: "Description", Type: TypeText, Nullable: true},
		{Name: "SupplierSource", Type: TypeText, Nullable: true},
		{Name: "Published", Type: TypeInt, Default: "1"},
		{Name: "CreatedOn", Type: "timestamp", Default: "CURRENT_TIMESTAMP"},
	}
}
