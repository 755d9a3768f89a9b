package batchrepo

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

// GormBatchRepository implements ports.BatchRepository using GORM.
type GormBatchRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormBatchRepository(db *gorm.DB, tracker aggregateTracker) *GormBatchRepository {
	return &GormBatchRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a batch together with its orders. Batches are created by the
// backend; Add is used for seeding.
func (r *GormBatchRepository) Add(ctx context.Context, aggregate *batch.Batch) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormBatchRepository) Get(ctx context.Context, id kernel.UUID) (*batch.Batch, error) {
	return r.get(r.db.WithContext(ctx), id)
}

func (r *GormBatchRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*batch.Batch, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// Update writes the batch status and assignment columns. Orders are left alone.
func (r *GormBatchRepository) Update(ctx context.Context, aggregate *batch.Batch) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&BatchDTO{}).
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
		return errs.NewObjectNotFoundError("batch", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormBatchRepository) UpdateStatus(ctx context.Context, id kernel.UUID, expectedRaw, raw string) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&BatchDTO{}).
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

func (r *GormBatchRepository) AddDecline(ctx context.Context, id, driverID kernel.UUID, reason string) error {
	dto := DeclineDTO{
		ID:       kernel.NewUUID().Bytes(),
		BatchID:  id.Bytes(),
		DriverID: driverID.Bytes(),
		Reason:   reason,
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormBatchRepository) get(db *gorm.DB, id kernel.UUID) (*batch.Batch, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto BatchDTO
	err := db.
		Preload("Orders", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("batch", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
