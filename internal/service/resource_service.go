package service

import (
	"context"
	"strings"

	"comptoir/internal/database"
	"comptoir/internal/domain"
	"comptoir/internal/events"
	"comptoir/internal/models"

	"github.com/rs/zerolog"
)

type ResourceService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewResourceService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *ResourceService {
	return &ResourceService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *ResourceService) AddResource(ctx context.Context, resource *models.Resource) error {
	resource.Name = strings.TrimSpace(resource.Name)
	resource.Category = strings.TrimSpace(resource.Category)

	if resource.Name == "" {
		return database.ErrMissingField
	}
	if resource.Kind != models.KindProduct && resource.Kind != models.KindSpace {
		return database.ErrMissingField
	}
	if !resource.UnitPrice.IsPositive() {
		return database.ErrInvalidPrice
	}
	if resource.Stock < 0 || resource.Capacity < 0 {
		return database.ErrNegativeStock
	}

	return s.repo.CreateResource(ctx, resource)
}

func (s *ResourceService) GetResource(ctx context.Context, id int64) (*models.Resource, error) {
	return s.repo.GetResourceByID(ctx, id)
}

func (s *ResourceService) ListResources(ctx context.Context) ([]*models.Resource, error) {
	return s.repo.GetAllResources(ctx)
}

func (s *ResourceService) ListResourcesByCategory(ctx context.Context, category string) ([]*models.Resource, error) {
	return s.repo.GetResourcesByCategory(ctx, strings.TrimSpace(category))
}

func (s *ResourceService) ListCategories(ctx context.Context) ([]string, error) {
	return s.repo.GetCategories(ctx)
}

func (s *ResourceService) SearchResources(ctx context.Context, term string) ([]*models.Resource, error) {
	return s.repo.SearchResources(ctx, strings.TrimSpace(term))
}

// UpdateResource applies a partial update and returns the number of rows
// changed. An empty patch is a no-op, not an error; an unknown id is
// ErrResourceNotFound.
func (s *ResourceService) UpdateResource(ctx context.Context, id int64, patch models.ResourcePatch) (int64, error) {
	if patch.IsEmpty() {
		return 0, nil
	}

	if patch.Name != nil {
		normalized := strings.TrimSpace(*patch.Name)
		if normalized == "" {
			return 0, database.ErrMissingField
		}
		patch.Name = &normalized
	}
	if patch.Category != nil {
		normalized := strings.TrimSpace(*patch.Category)
		patch.Category = &normalized
	}
	if patch.UnitPrice != nil && !patch.UnitPrice.IsPositive() {
		return 0, database.ErrInvalidPrice
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return 0, database.ErrNegativeStock
	}
	if patch.Capacity != nil && *patch.Capacity < 0 {
		return 0, database.ErrNegativeStock
	}

	rows, err := s.repo.UpdateResource(ctx, id, patch)
	if err != nil {
		return 0, err
	}
	// a non-empty patch that touched nothing means the id is absent
	if rows == 0 {
		return 0, database.ErrResourceNotFound
	}
	return rows, nil
}

// AdjustStock shifts the stock level by a signed delta. Removals are
// guarded in the store so the level never crosses zero.
func (s *ResourceService) AdjustStock(ctx context.Context, id int64, delta int64) error {
	if delta == 0 {
		return nil
	}

	var (
		rows int64
		err  error
	)
	if delta > 0 {
		rows, err = s.repo.IncreaseStock(ctx, id, delta)
	} else {
		rows, err = s.repo.DecreaseStock(ctx, id, -delta)
	}
	if err != nil {
		return err
	}
	if rows == 0 {
		if delta < 0 {
			// either the resource is missing or the removal would go negative
			if _, err := s.repo.GetResourceByID(ctx, id); err != nil {
				return err
			}
			return database.ErrInsufficientStock
		}
		return database.ErrResourceNotFound
	}

	s.publishStockEvent(ctx, id)
	return nil
}

func (s *ResourceService) SetStockLevel(ctx context.Context, id int64, stock int64) error {
	if stock < 0 {
		return database.ErrNegativeStock
	}

	rows, err := s.repo.SetStock(ctx, id, stock)
	if err != nil {
		return err
	}
	if rows == 0 {
		return database.ErrResourceNotFound
	}

	s.publishStockEvent(ctx, id)
	return nil
}

// DeleteResource removes a resource without transaction history.
func (s *ResourceService) DeleteResource(ctx context.Context, id int64) error {
	rows, err := s.repo.DeleteResource(ctx, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return database.ErrHasTransactions
		}
		return err
	}
	if rows == 0 {
		return database.ErrResourceNotFound
	}
	return nil
}

func (s *ResourceService) publishStockEvent(ctx context.Context, id int64) {
	if s.eventBus == nil {
		return
	}

	resource, err := s.repo.GetResourceByID(ctx, id)
	if err != nil {
		return
	}

	payload := events.StockEventPayload{
		ResourceID: resource.ID,
		Name:       resource.Name,
		Stock:      int(resource.Stock),
	}

	if err := s.eventBus.PublishJSON(events.EventStockAdjusted, payload); err != nil {
		s.logger.Error().Err(err).Int64("resource_id", id).Msg("publish event error")
	}
}
