package database

import (
	"context"

	"github.com/bbct/bbct/internal/models"
)

// CardReader defines read operations for baseball cards.
type CardReader interface {
	GetCard(ctx context.Context, id int64) (models.BaseballCard, bool, error)
	ListCards(ctx context.Context) ([]models.BaseballCard, error)
	FindCards(ctx context.Context, filter models.CardFilter) ([]models.BaseballCard, error)
}

// CardWriter defines write operations for baseball cards.
type CardWriter interface {
	InsertCard(ctx context.Context, card models.BaseballCard) (int64, error)
	UpdateCard(ctx context.Context, card models.BaseballCard) error
	DeleteCards(ctx context.Context, ids []int64) (int, error)
}

// CardProjector defines the distinct-value projections used for suggestions.
type CardProjector interface {
	DistinctBrands(ctx context.Context) ([]string, error)
	DistinctPlayerNames(ctx context.Context) ([]string, error)
	DistinctTeams(ctx context.Context) ([]string, error)
}

// CardRepository combines all card operations.
type CardRepository interface {
	CardReader
	CardWriter
	CardProjector
}

var _ CardRepository = (*CardRepo)(nil)
