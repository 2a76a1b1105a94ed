package repository

import (
	"context"

	"github.com/emberwatch/fireline/internal/models"
)

// Filter narrows perimeter listings. Zero values mean "no constraint".
type Filter struct {
	Name  string // case-insensitive substring match
	Year  *int
	Limit int
}

// PerimeterStore persists the output of the offline preprocessing run and
// serves it read-only at query time.
type PerimeterStore interface {
	Save(ctx context.Context, p *models.ProcessedPerimeter) error
	GetByFireID(ctx context.Context, fireID string) (*models.ProcessedPerimeter, error)
	List(ctx context.Context, opts Filter) ([]models.ProcessedPerimeter, error)
}
