// Package fifthperson scrapes the published S-REIT fundamentals table.
package fifthperson

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wqkoh/reitwatch/internal/core"
)

// FifthPerson scrapes distribution yield, P/NAV, NAV, gearing and DPU
// for every REIT listed on the source page. Each metric is parsed
// independently; a malformed cell leaves only that field unavailable.
type FifthPerson struct {
	client *http.Client
	url    string
}

// New creates a scraper against the given page URL.
func New(url string) *FifthPerson {
	return &FifthPerson{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		url: url,
	}
}

func (f *FifthPerson) Name() string {
	return "fifthperson"
}

// column positions resolved from a table's header row
type columns struct {
	name    int
	yield   int
	pnav    int
	nav     int
	gearing int
	dpu     int
}

// FetchAll downloads the page and parses the fundamentals table into a
// map keyed by REIT name as printed by the source.
func (f *FifthPerson) FetchAll(ctx context.Context) (map[string]core.FundamentalsSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; reitwatch/1.0)")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrCollectorFailed,
			fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	return parseTables(doc)
}

// parseTables scans every table on the page and keeps rows from the
// first one whose headers include a yield column.
func parseTables(doc *goquery.Document) (map[string]core.FundamentalsSnapshot, error) {
	result := make(map[string]core.FundamentalsSnapshot)

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		cols, ok := resolveColumns(table)
		if !ok {
			return true // try next table
		}

		table.Find("tbody tr, tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() <= cols.name {
				return
			}
			name := strings.TrimSpace(cells.Eq(cols.name).Text())
			if name == "" {
				return
			}
			result[name] = core.FundamentalsSnapshot{
				YieldPct:   cellMetric(cells, cols.yield),
				PriceToNAV: cellMetric(cells, cols.pnav),
				NAV:        cellMetric(cells, cols.nav),
				GearingPct: cellMetric(cells, cols.gearing),
				DPU:        cellMetric(cells, cols.dpu),
			}
		})
		return false
	})

	if len(result) == 0 {
		return nil, core.WrapError(core.ErrNoData,
			fmt.Errorf("no fundamentals table found on page"))
	}
	return result, nil
}

// resolveColumns maps the metric columns from a table's header row.
// A table without a recognizable yield column is not the one we want.
func resolveColumns(table *goquery.Selection) (columns, bool) {
	cols := columns{name: 0, yield: -1, pnav: -1, nav: -1, gearing: -1, dpu: -1}

	table.Find("th").Each(func(i int, th *goquery.Selection) {
		header := strings.ToLower(strings.TrimSpace(th.Text()))
		switch {
		case strings.Contains(header, "name") || strings.Contains(header, "reit"):
			cols.name = i
		case strings.Contains(header, "yield"):
			cols.yield = i
		case strings.Contains(header, "p/nav") || strings.Contains(header, "price/nav") ||
			strings.Contains(header, "price to nav"):
			cols.pnav = i
		case strings.Contains(header, "gearing"):
			cols.gearing = i
		case strings.Contains(header, "dpu"):
			cols.dpu = i
		case strings.Contains(header, "nav"):
			cols.nav = i
		}
	})

	return cols, cols.yield >= 0
}

// cellMetric parses one table cell into an optional metric.
func cellMetric(cells *goquery.Selection, index int) core.Metric {
	if index < 0 || index >= cells.Length() {
		return core.Metric{}
	}
	return parseMetric(cells.Eq(index).Text())
}

// parseMetric strips the source's unit decorations ("%", "x", "S$",
// thousands separators) and parses the remainder. Anything that still
// fails to parse, such as "-" or "N/A", stays unavailable.
func parseMetric(raw string) core.Metric {
	s := strings.TrimSpace(raw)
	for _, deco := range []string{"%", "x", "S$", "$", ","} {
		s = strings.ReplaceAll(s, deco, "")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return core.Metric{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return core.Metric{}
	}
	return core.MetricOf(v)
}
