package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/gtd_storefront/internal/models"
)

// ResearchRepository reads research publications.
type ResearchRepository struct {
	db *sqlx.DB
}

func NewResearchRepository(db *sqlx.DB) *ResearchRepository {
	return &ResearchRepository{db: db}
}

// All returns every research entry. published_at may be NULL.
func (r *ResearchRepository) All(ctx context.Context) ([]models.Research, error) {
	const q = `SELECT id, title, doi, category, abstract, tags, year, citations, published_at
        FROM research ORDER BY id`
	entries := []models.Research{}
	if err := r.db.SelectContext(ctx, &entries, q); err != nil {
		return nil, err
	}
	return entries, nil
}
