package navigationrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/routing"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormNavigationPayloadRepository implements ports.NavigationPayloadRepository.
type GormNavigationPayloadRepository struct {
	db *gorm.DB
}

func NewGormNavigationPayloadRepository(db *gorm.DB) *GormNavigationPayloadRepository {
	return &GormNavigationPayloadRepository{db: db}
}

// Save upserts the payload keyed by batch id.
func (r *GormNavigationPayloadRepository) Save(ctx context.Context, payload routing.NavigationPayload) error {
	if err := payload.BatchID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("batch_id", err)
	}

	dto := fromDomain(payload)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "batch_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"batch_type", "phase", "fallback", "payload", "generated_at", "updated_at"}),
		}).
		Create(&dto).Error
}

func (r *GormNavigationPayloadRepository) Get(ctx context.Context, batchID kernel.UUID) (routing.NavigationPayload, error) {
	if err := batchID.Validate(); err != nil {
		return routing.NavigationPayload{}, err
	}

	var dto NavigationPayloadDTO
	if err := r.db.WithContext(ctx).First(&dto, "batch_id = ?", batchID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return routing.NavigationPayload{}, errs.NewObjectNotFoundError("navigation payload", batchID.String())
		}
		return routing.NavigationPayload{}, err
	}

	return dto.Payload, nil
}
