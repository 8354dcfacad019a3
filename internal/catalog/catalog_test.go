package catalog

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	seq   int
	attrs Attributes
}

func (r testRecord) Attributes() Attributes { return r.attrs }

func rec(seq int, name, category string, price int64) testRecord {
	return testRecord{
		seq: seq,
		attrs: Attributes{
			ID:            fmt.Sprintf("r-%d", seq),
			SKU:           fmt.Sprintf("SKU-%03d", seq),
			Name:          name,
			Category:      category,
			Price:         decimal.NewFromInt(price),
			InStock:       true,
			StockQuantity: 5,
		},
	}
}

func ids(records []testRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.attrs.ID
	}
	return out
}

// randomRecords builds a deterministic, varied record set.
func randomRecords(n int, seed int64) []testRecord {
	rng := rand.New(rand.NewSource(seed))
	categories := []string{"Drones", "Sensors", "Robotics"}
	warranties := []string{"1y", "2y", "3y"}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	out := make([]testRecord, n)
	for i := range out {
		r := rec(i, fmt.Sprintf("Item %c%d", 'A'+rng.Intn(5), rng.Intn(3)), categories[rng.Intn(len(categories))], int64(rng.Intn(10)*1000))
		r.attrs.Rating = float64(rng.Intn(6))
		r.attrs.StockQuantity = rng.Intn(4) * 5
		r.attrs.InStock = rng.Intn(4) != 0
		r.attrs.Facets = map[string][]string{"warranty": {warranties[rng.Intn(len(warranties))]}}
		r.attrs.Ranges = map[string]decimal.Decimal{"budget": decimal.NewFromInt(int64(rng.Intn(5) * 100))}
		if rng.Intn(5) != 0 {
			r.attrs.CreatedAt = base.Add(time.Duration(rng.Intn(4)) * 24 * time.Hour)
		}
		out[i] = r
	}
	return out
}

func TestFilter_ScenarioCategory(t *testing.T) {
	records := make([]testRecord, 0, 24)
	for i := 0; i < 24; i++ {
		category := "Sensors"
		if i%3 == 0 {
			category = "Drones"
		}
		records = append(records, rec(i, fmt.Sprintf("item %d", i), category, 1000))
	}

	got, anomalies := Filter(records, Criteria{Category: "Drones"})

	assert.Empty(t, anomalies)
	require.Len(t, got, 8)
	for _, r := range got {
		assert.Equal(t, "Drones", r.attrs.Category)
	}
}

func TestFilter_CategoryAllIsNoConstraint(t *testing.T) {
	records := []testRecord{rec(1, "a", "Drones", 1), rec(2, "b", "Sensors", 1)}

	got, _ := Filter(records, Criteria{Category: "all"})
	assert.Len(t, got, 2)
}

func TestFilter_PriceRangeInclusive(t *testing.T) {
	records := []testRecord{
		rec(1, "at bound", "Drones", 50000),
		rec(2, "above", "Drones", 55000),
		rec(3, "free", "Drones", 0),
	}
	c := Criteria{Price: NewRange(decimal.Zero, decimal.NewFromInt(50000))}

	got, _ := Filter(records, c)

	assert.Equal(t, []string{"r-1", "r-3"}, ids(got))
}

func TestFilter_PriceRangeSwappedIsNormalized(t *testing.T) {
	records := []testRecord{rec(1, "mid", "Drones", 300), rec(2, "out", "Drones", 900)}
	c := Criteria{Price: NewRange(decimal.NewFromInt(500), decimal.NewFromInt(100))}

	got, _ := Filter(records, c)

	assert.Equal(t, []string{"r-1"}, ids(got))
}

func TestFilter_OpenEndedRange(t *testing.T) {
	records := []testRecord{rec(1, "cheap", "x", 10), rec(2, "pricey", "x", 1000)}
	c := Criteria{Price: Range{Min: decimal.NewNullDecimal(decimal.NewFromInt(100))}}

	got, _ := Filter(records, c)

	assert.Equal(t, []string{"r-2"}, ids(got))
}

func TestFilter_SearchMatchesNameOrSKU(t *testing.T) {
	records := []testRecord{
		rec(1, "Quadcopter X", "Drones", 1),
		rec(2, "Lidar", "Sensors", 1),
	}

	byName, _ := Filter(records, Criteria{Search: "  quadCOPTER "})
	assert.Equal(t, []string{"r-1"}, ids(byName))

	bySKU, _ := Filter(records, Criteria{Search: "sku-002"})
	assert.Equal(t, []string{"r-2"}, ids(bySKU))

	none, _ := Filter(records, Criteria{Search: "zeppelin"})
	assert.Empty(t, none)
}

func TestFilter_StockStatus(t *testing.T) {
	plenty := rec(1, "plenty", "x", 1)
	plenty.attrs.StockQuantity = 50
	low := rec(2, "low", "x", 1)
	low.attrs.StockQuantity = 3
	zero := rec(3, "zero", "x", 1)
	zero.attrs.StockQuantity = 0
	flagged := rec(4, "flagged out", "x", 1)
	flagged.attrs.InStock = false
	records := []testRecord{plenty, low, zero, flagged}

	tests := []struct {
		status StockStatus
		want   []string
	}{
		{StockAny, []string{"r-1", "r-2", "r-3", "r-4"}},
		{StockInStock, []string{"r-1", "r-2"}},
		{StockLowStock, []string{"r-2", "r-3"}},
		{StockOutOfStock, []string{"r-3", "r-4"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			got, _ := Filter(records, Criteria{Stock: tt.status, LowStockThreshold: 10})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilter_MinRating(t *testing.T) {
	a := rec(1, "a", "x", 1)
	a.attrs.Rating = 4.5
	b := rec(2, "b", "x", 1)
	b.attrs.Rating = 3.9

	got, _ := Filter([]testRecord{a, b}, Criteria{MinRating: 4})
	assert.Equal(t, []string{"r-1"}, ids(got))
}

func TestCompose_DefaultMinRatingRejectsNegative(t *testing.T) {
	accept := Compose(Criteria{})

	assert.True(t, accept(Attributes{Rating: 0}))
	assert.True(t, accept(Attributes{Rating: 4.5}))
	assert.False(t, accept(Attributes{Rating: -1}))
}

func TestFilter_MultiSelectFacetIsAnyOf(t *testing.T) {
	a := rec(1, "a", "x", 1)
	a.attrs.Facets = map[string][]string{"tech": {"go", "rust"}}
	b := rec(2, "b", "x", 1)
	b.attrs.Facets = map[string][]string{"tech": {"python"}}
	c := rec(3, "c", "x", 1)
	records := []testRecord{a, b, c}

	got, _ := Filter(records, Criteria{Facets: map[string][]string{"tech": {"rust", "python"}}})
	assert.Equal(t, []string{"r-1", "r-2"}, ids(got))

	got, _ = Filter(records, Criteria{Facets: map[string][]string{"tech": {}}})
	assert.Len(t, got, 3, "empty selection imposes no constraint")
}

func TestFilter_FacetsCombineWithAnd(t *testing.T) {
	a := rec(1, "a", "x", 1)
	a.attrs.Facets = map[string][]string{"warranty": {"2y"}, "delivery": {"express"}}
	b := rec(2, "b", "x", 1)
	b.attrs.Facets = map[string][]string{"warranty": {"2y"}, "delivery": {"standard"}}

	got, _ := Filter([]testRecord{a, b}, Criteria{Facets: map[string][]string{
		"warranty": {"2y"},
		"delivery": {"express"},
	}})
	assert.Equal(t, []string{"r-1"}, ids(got))
}

func TestFilter_NumericRangeFacet(t *testing.T) {
	a := rec(1, "a", "x", 0)
	a.attrs.Ranges = map[string]decimal.Decimal{"duration": decimal.NewFromInt(6)}
	b := rec(2, "b", "x", 0)
	b.attrs.Ranges = map[string]decimal.Decimal{"duration": decimal.NewFromInt(18)}
	missing := rec(3, "c", "x", 0)

	got, _ := Filter([]testRecord{a, b, missing}, Criteria{Ranges: map[string]Range{
		"duration": NewRange(decimal.NewFromInt(12), decimal.NewFromInt(3)),
	}})
	assert.Equal(t, []string{"r-1"}, ids(got))
}

func TestFilter_MalformedRecordsAreReportedNotFatal(t *testing.T) {
	good := rec(1, "good", "x", 10)
	negPrice := rec(2, "neg price", "x", -5)
	negStock := rec(3, "neg stock", "x", 10)
	negStock.attrs.StockQuantity = -1
	negRating := rec(4, "neg rating", "x", 10)
	negRating.attrs.Rating = -1

	got, anomalies := Filter([]testRecord{negPrice, good, negStock, negRating}, Criteria{})

	assert.Equal(t, []string{"r-1"}, ids(got))
	assert.Equal(t, []Anomaly{
		{ID: "r-2", Reason: reasonNegativePrice},
		{ID: "r-3", Reason: reasonNegativeStock},
		{ID: "r-4", Reason: reasonNegativeRating},
	}, anomalies)
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	records := randomRecords(30, 7)
	before := ids(records)

	_, _ = Filter(records, Criteria{Category: "Drones"})

	assert.Equal(t, before, ids(records))
}

// satisfies re-checks every constraint independently of Compose.
func satisfies(a Attributes, c Criteria) bool {
	if c.Category != "" && c.Category != CategoryAll && a.Category != c.Category {
		return false
	}
	if c.Search != "" && !strings.Contains(strings.ToLower(a.Name), strings.ToLower(c.Search)) &&
		!strings.Contains(strings.ToLower(a.SKU), strings.ToLower(c.Search)) {
		return false
	}
	if !c.Price.IsZero() && !c.Price.Contains(a.Price) {
		return false
	}
	switch c.Stock {
	case StockInStock:
		if !(a.InStock && a.StockQuantity > 0) {
			return false
		}
	case StockOutOfStock:
		if a.InStock && a.StockQuantity > 0 {
			return false
		}
	case StockLowStock:
		if !(a.InStock && a.StockQuantity < c.LowStockThreshold) {
			return false
		}
	}
	if a.Rating < c.MinRating {
		return false
	}
	for facet, selected := range c.Facets {
		if len(selected) == 0 {
			continue
		}
		found := false
		for _, v := range a.Facets[facet] {
			for _, s := range selected {
				found = found || v == s
			}
		}
		if !found {
			return false
		}
	}
	for name, r := range c.Ranges {
		v, ok := a.Ranges[name]
		if !ok || !r.Contains(v) {
			return false
		}
	}
	return true
}

func propertyCriteria() []Criteria {
	return []Criteria{
		{},
		{Category: "Drones"},
		{Search: "item a"},
		{Price: NewRange(decimal.NewFromInt(2000), decimal.NewFromInt(6000))},
		{Stock: StockInStock},
		{Stock: StockLowStock, LowStockThreshold: 10},
		{Stock: StockOutOfStock},
		{MinRating: 3},
		{Facets: map[string][]string{"warranty": {"1y", "3y"}}},
		{Ranges: map[string]Range{"budget": NewRange(decimal.NewFromInt(400), decimal.NewFromInt(100))}},
		{
			Category:          "Sensors",
			Price:             NewRange(decimal.Zero, decimal.NewFromInt(8000)),
			Stock:             StockInStock,
			MinRating:         2,
			Facets:            map[string][]string{"warranty": {"2y"}},
			LowStockThreshold: 10,
		},
	}
}

func TestFilter_NoFalsePositives(t *testing.T) {
	records := randomRecords(200, 42)

	for i, c := range propertyCriteria() {
		t.Run(fmt.Sprintf("criteria-%d", i), func(t *testing.T) {
			got, _ := Filter(records, c)
			for _, r := range got {
				assert.True(t, satisfies(r.attrs, c), "record %s should not match", r.attrs.ID)
			}
			// No false negatives either.
			want := 0
			for _, r := range records {
				if satisfies(r.attrs, c) {
					want++
				}
			}
			assert.Len(t, got, want)
		})
	}
}

func TestFilter_Idempotent(t *testing.T) {
	records := randomRecords(150, 99)

	for i, c := range propertyCriteria() {
		t.Run(fmt.Sprintf("criteria-%d", i), func(t *testing.T) {
			once, _ := Filter(records, c)
			twice, _ := Filter(once, c)
			assert.Equal(t, ids(once), ids(twice))
		})
	}
}
