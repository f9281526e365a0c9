package service

import (
	"context"

	"github.com/mfreitas/tradejournal/internal/domain/models"
	"github.com/mfreitas/tradejournal/internal/storage"
)

// TradeService defines the business operations over journal entries.
// It is intentionally thin: the journal has no business rules beyond
// what the schema enforces, so each call maps to one repository operation.
type TradeService interface {
	List(ctx context.Context, sortBy, order string) ([]models.Trade, error)
	Create(ctx context.Context, t models.Trade) (*models.Trade, error)
	Update(ctx context.Context, id string, t models.Trade) (*models.Trade, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type tradeService struct {
	repo storage.TradesRepository
}

func NewTradeService(repo storage.TradesRepository) TradeService {
	return &tradeService{repo: repo}
}

func (s *tradeService) List(ctx context.Context, sortBy, order string) ([]models.Trade, error) {
	return s.repo.ListSorted(ctx, sortBy, order)
}

func (s *tradeService) Create(ctx context.Context, t models.Trade) (*models.Trade, error) {
	return s.repo.Insert(ctx, t)
}

func (s *tradeService) Update(ctx context.Context, id string, t models.Trade) (*models.Trade, error) {
	return s.repo.UpdateByID(ctx, id, t)
}

func (s *tradeService) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.DeleteByID(ctx, id)
}
