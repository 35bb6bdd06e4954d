// Package scraper produces the daily JSON snapshot files the catalog
// pipeline consumes. It discovers brands from the retailer home page, walks
// each brand through the paginated search API and writes one file per result
// page under the dated snapshot directory.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hd9319/ecommerce-app/internal/apperr"
	"github.com/hd9319/ecommerce-app/pkg/records"
)

const (
	defaultPageSize = 24
	defaultMaxPages = 100
	userAgent       = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_13_3) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/75.0.3770.142 Safari/537.36"
)

// Client scrapes one retailer. Zero-value fields fall back to sane defaults;
// Domain, HomePage, SearchAPI and DataDir must be set.
type Client struct {
	Domain    string // e.g. https://www.bestbuy.ca
	HomePage  string // e.g. https://www.bestbuy.ca/en-ca
	SearchAPI string // e.g. https://www.bestbuy.ca/api/v2/json/search
	Region    string // currentRegion query parameter
	PageSize  int
	MaxPages  int // hard cap per brand, totalPages usually ends the walk first
	Delay     time.Duration
	Workers   int
	DataDir   string
	HTTP      *http.Client
	Log       zerolog.Logger
}

// searchResponse is the subset of the search API payload the scraper needs.
// Product fields pass through untouched; the pipeline's transform chain owns
// their interpretation.
type searchResponse struct {
	Products   []records.Record `json:"products"`
	TotalPages int              `json:"totalPages"`
}

// snapshotEnvelope matches the file shape internal/extract reads back.
type snapshotEnvelope struct {
	Brand   string           `json:"brand"`
	Results []records.Record `json:"results"`
}

// BrandReference scrapes the home page for brand links. Anchors inside
// elements whose class contains "brandGroup" carry the brand name as text
// and the brand page as href. Relative hrefs are resolved against Domain.
func (c *Client) BrandReference(ctx context.Context) (map[string]string, error) {
	body, err := c.get(ctx, c.HomePage, c.HomePage)
	if err != nil {
		return nil, apperr.Config(c.HomePage, err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, apperr.Parse(c.HomePage, err)
	}

	ref := map[string]string{}
	doc.Find(`[class*="brandGroup"] a`).Each(func(_ int, a *goquery.Selection) {
		brand := strings.TrimSpace(a.Text())
		href, ok := a.Attr("href")
		if brand == "" || !ok || href == "" {
			return
		}
		if strings.HasPrefix(href, "/") {
			href = c.Domain + href
		}
		ref[brand] = href
	})
	if len(ref) == 0 {
		return nil, apperr.Parse(c.HomePage, fmt.Errorf("no brand links found"))
	}
	return ref, nil
}

// Run scrapes every brand (or only brandSubset when non-empty) through a
// bounded worker pool. Subset names are matched case-insensitively against
// the scraped reference; an unknown name is a configuration error.
func (c *Client) Run(ctx context.Context, brandSubset []string) error {
	ref, err := c.BrandReference(ctx)
	if err != nil {
		return err
	}
	targets, err := filterBrands(ref, brandSubset)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return apperr.Config(c.DataDir, err)
	}

	workers := c.Workers
	if workers < 1 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	// Stable order makes reruns and logs comparable.
	brands := make([]string, 0, len(targets))
	for b := range targets {
		brands = append(brands, b)
	}
	sort.Strings(brands)

	for _, brand := range brands {
		brand := brand
		g.Go(func() error {
			if err := c.FetchBrand(ctx, brand, targets[brand]); err != nil {
				// One unreachable brand must not sink the others.
				c.Log.Warn().Str("brand", brand).Err(err).Msg("brand fetch failed")
			}
			return nil
		})
	}
	return g.Wait()
}

// FetchBrand walks the search API for one brand and writes one snapshot file
// per non-empty result page.
func (c *Client) FetchBrand(ctx context.Context, brand, brandURL string) error {
	c.Log.Info().Str("brand", brand).Msg("downloading products")

	maxPages := c.MaxPages
	if maxPages < 1 {
		maxPages = defaultMaxPages
	}

	for page := 1; page <= maxPages; page++ {
		if err := c.sleep(ctx); err != nil {
			return err
		}

		body, err := c.get(ctx, c.searchURL(brand, page), brandURL)
		if err != nil {
			c.Log.Warn().Str("brand", brand).Int("page", page).Err(err).Msg("search request failed")
			return err
		}
		var resp searchResponse
		err = json.NewDecoder(body).Decode(&resp)
		body.Close()
		if err != nil {
			c.Log.Warn().Str("brand", brand).Int("page", page).Err(err).Msg("undecodable search payload")
			return apperr.Parse(brand, err)
		}

		if len(resp.Products) > 0 {
			if err := c.writePage(brand, page, resp.Products); err != nil {
				return err
			}
		}
		if page >= resp.TotalPages {
			break
		}
		c.Log.Debug().Str("brand", brand).Int("page", page).Int("total_pages", resp.TotalPages).Msg("page complete")
	}

	c.Log.Info().Str("brand", brand).Msg("brand complete")
	return nil
}

// writePage stores one result page as <BRAND>_<page>.json. Spaces are
// stripped from the brand so the file name stays flat.
func (c *Client) writePage(brand string, page int, products []records.Record) error {
	name := fmt.Sprintf("%s_%d.json", strings.ReplaceAll(brand, " ", ""), page)
	path := filepath.Join(c.DataDir, name)

	f, err := os.Create(path)
	if err != nil {
		return apperr.Config(path, err)
	}
	err = json.NewEncoder(f).Encode(snapshotEnvelope{Brand: brand, Results: products})
	if cerr := f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return apperr.Config(path, err)
	}
	return nil
}

func (c *Client) searchURL(brand string, page int) string {
	pageSize := c.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	q := url.Values{}
	q.Set("categoryid", "")
	q.Set("currentRegion", c.Region)
	q.Set("include", "facets, redirects")
	q.Set("lang", "en-CA")
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	q.Set("path", "brandName:"+brand)
	q.Set("query", "")
	q.Set("sortBy", "relevance")
	q.Set("sortDir", "desc")
	return c.SearchAPI + "?" + q.Encode()
}

// get issues one GET with the browser-shaped headers the retailer expects
// and returns the response body on HTTP 200.
func (c *Client) get(ctx context.Context, rawURL, referer string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", referer)

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: unexpected status %d", rawURL, resp.StatusCode)
	}
	return resp.Body, nil
}

func (c *Client) sleep(ctx context.Context) error {
	if c.Delay <= 0 {
		return nil
	}
	t := time.NewTimer(c.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// filterBrands upcases the reference keys and optionally restricts them to a
// subset. Every subset entry must resolve to a scraped brand.
func filterBrands(ref map[string]string, subset []string) (map[string]string, error) {
	upper := make(map[string]string, len(ref))
	for brand, u := range ref {
		upper[strings.ToUpper(brand)] = u
	}
	if len(subset) == 0 {
		return upper, nil
	}
	out := make(map[string]string, len(subset))
	for _, want := range subset {
		key := strings.ToUpper(strings.TrimSpace(want))
		u, ok := upper[key]
		if !ok {
			return nil, apperr.Configf(want, "unknown brand %q", want)
		}
		out[key] = u
	}
	return out, nil
}
