package schema

// Raw source field names as they appear in the scraped JSON snapshots.
// highResImage and shortDescription are renamed during transformation.
const (
	RawImage       = "highResImage"
	RawDescription = "shortDescription"
)

// UnknownQuantity is the destination schema's "unknown/assume in stock"
// sentinel. It matches the Quantity column default and must not be
// reinterpreted.
const UnknownQuantity = 99999

// ExtractSubset is the ordered raw column subset pulled out of the snapshot
// files. brand is injected from the file envelope, not the records.
func ExtractSubset() []string {
	return []string{
		"brand", "sku", "categoryName", RawImage,
		"regularPrice", "salePrice", RawDescription,
		"customerRating", "customerRatingCount",
		"customerReviewCount", "productUrl",
	}
}

// Electronics returns the canonical product contract.
//
// brand, sku, salePrice and the image are exclusion criteria: a row missing
// any of them is unusable in the catalog and is dropped outright. The
// remaining fields are soft metadata and fall back to declared defaults.
func Electronics() Contract {
	return Contract{
		Name: "electronics",
		Fields: []Field{
			{Name: "brand", Type: TypeText, Required: true},
			{Name: "sku", Type: TypeText, Required: true},
			{Name: "categoryName", Type: TypeText, Default: "Other"},
			{Name: "imageUrl", Type: TypeText, Required: true},
			{Name: "regularPrice", Type: TypeFloat, Nullable: true},
			{Name: "salePrice", Type: TypeFloat, Required: true, Default: float64(UnknownQuantity)},
			{Name: "description", Type: TypeText, Default: ""},
			{Name: "customerRating", Type: TypeFloat, Default: float64(0)},
			{Name: "customerRatingCount", Type: TypeInt, Default: int32(0)},
			{Name: "customerReviewCount", Type: TypeInt, Default: int32(0)},
			{Name: "productUrl", Type: TypeText},
		},
		Rename: map[string]string{
			RawImage:       "imageUrl",
			RawDescription: "description",
		},
		Key:        []string{"brand", "sku"},
		RequireRaw: []string{"brand", "sku", "salePrice", RawImage},
	}
}

// ElectronicsColumns maps canonical product fields onto the Electronics
// table columns.
func ElectronicsColumns() ColumnMap {
	return ColumnMap{
		{Source: "brand", Dest: "Brand"},
		{Source: "sku", Dest: "PartNumber"},
		{Source: "categoryName", Dest: "Category"},
		{Source: "imageUrl", Dest: "ImageUrl"},
		{Source: "regularPrice", Dest: "RegularPrice"},
		{Source: "salePrice", Dest: "SalePrice"},
		{Source: "description", Dest: "Description"},
		{Source: "customerRating", Dest: "CustomerRating"},
		{Source: "customerRatingCount", Dest: "CustomerRatingCount"},
		{Source: "customerReviewCount", Dest: "CustomerReviewCount"},
		{Source: "productUrl", Dest: "SourceUrl"},
	}
}

// Inventory returns the supplier inventory contract. Each run is a full
// reload; records are never updated individually.
func Inventory() Contract {
	return Contract{
		Name: "inventory",
		Fields: []Field{
			{Name: "brand", Type: TypeText, Required: true},
			{Name: "sku", Type: TypeText, Required: true},
			{Name: "inventory", Type: TypeInt, Required: true},
			{Name: "discontinued", Type: TypeInt, Default: int32(0)},
			{Name: "source", Type: TypeText},
		},
		Key:        []string{"brand", "sku"},
		RequireRaw: []string{"brand", "sku", "inventory"},
	}
}

// InventoryColumns maps inventory fields onto the Inventory table columns.
func InventoryColumns() ColumnMap {
	return ColumnMap{
		{Source: "brand", Dest: "Brand"},
		{Source: "sku", Dest: "PartNumber"},
		{Source: "inventory", Dest: "Quantity"},
		{Source: "discontinued", Dest: "Discontinued"},
		{Source: "source", Dest: "Source"},
	}
}
