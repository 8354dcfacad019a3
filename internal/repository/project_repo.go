package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/gtd_storefront/internal/models"
)

// ProjectRepository reads portfolio projects.
type ProjectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// All returns every published project.
func (r *ProjectRepository) All(ctx context.Context) ([]models.Project, error) {
	const q = `SELECT id, title, category, summary, budget, duration_months, team_size,
        technologies, rating, created_at
        FROM projects ORDER BY id`
	projects := []models.Project{}
	if err := r.db.SelectContext(ctx, &projects, q); err != nil {
		return nil, err
	}
	return projects, nil
}
