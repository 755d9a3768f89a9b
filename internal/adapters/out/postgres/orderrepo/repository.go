package orderrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a standalone order. The backend creates orders in
// production; Add exists for seeding and fixtures.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *batch.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := FromDomain(aggregate, nil, 0)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*batch.Order, error) {
	return r.get(r.db.WithContext(ctx), id)
}

func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*batch.Order, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// Update writes status and assignment columns only; the rest of the row
// belongs to the backend.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *batch.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := FromDomain(aggregate, nil, 0)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"status":      dto.Status,
			"driver_id":   dto.DriverID,
			"declined_by": dto.DeclinedBy,
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id kernel.UUID, expectedRaw, raw string) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ?", id.Bytes(), expectedRaw).
		Updates(map[string]any{"status": raw, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ports.ErrStatusRejected
	}
	return nil
}

func (r *GormOrderRepository) AddDecline(ctx context.Context, id, driverID kernel.UUID, reason string) error {
	dto := DeclineDTO{
		ID:       kernel.NewUUID().Bytes(),
		OrderID:  id.Bytes(),
		DriverID: driverID.Bytes(),
		Reason:   reason,
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormOrderRepository) get(db *gorm.DB, id kernel.UUID) (*batch.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return ToDomain(dto)
}
