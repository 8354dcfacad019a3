package models

import (
	"strconv"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/gtd_storefront/internal/catalog"
)

// Project is a showcased engineering project.
type Project struct {
	ID             int             `db:"id" json:"id"`
	Title          string          `db:"title" json:"title"`
	Category       string          `db:"category" json:"category"`
	Summary        string          `db:"summary" json:"summary"`
	Budget         decimal.Decimal `db:"budget" json:"budget"`
	DurationMonths int             `db:"duration_months" json:"durationMonths"`
	TeamSize       int             `db:"team_size" json:"teamSize"`
	Technologies   pq.StringArray  `db:"technologies" json:"technologies"`
	Rating         float64         `db:"rating" json:"rating"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
}

// Attributes exposes the project to the catalog engine. Projects have no
// stock, so they always read as available.
func (p Project) Attributes() catalog.Attributes {
	return catalog.Attributes{
		ID:            strconv.Itoa(p.ID),
		Name:          p.Title,
		Category:      p.Category,
		Price:         p.Budget,
		Rating:        p.Rating,
		InStock:       true,
		StockQuantity: 1,
		Facets: map[string][]string{
			FacetTech: []string(p.Technologies),
		},
		Ranges: map[string]decimal.Decimal{
			RangeBudget:   p.Budget,
			RangeDuration: decimal.NewFromInt(int64(p.DurationMonths)),
			RangeTeamSize: decimal.NewFromInt(int64(p.TeamSize)),
		},
		CreatedAt: p.CreatedAt,
	}
}
