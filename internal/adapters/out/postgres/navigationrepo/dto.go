// Package navigationrepo stores the latest navigation payload per batch.
package navigationrepo

import (
	"time"

	"dispatch/internal/core/domain/model/routing"

	"github.com/google/uuid"
)

// NavigationPayloadDTO keeps the payload as jsonb next to a few columns
// that are handy for support queries.
type NavigationPayloadDTO struct {
	BatchID     uuid.UUID                 `gorm:"type:uuid;primaryKey"`
	BatchType   string                    `gorm:"size:64"`
	Phase       int                       `gorm:"not null"`
	Fallback    bool                      `gorm:"not null;default:false"`
	Payload     routing.NavigationPayload `gorm:"type:jsonb;serializer:json"`
	GeneratedAt time.Time
	UpdatedAt   time.Time
}

func (NavigationPayloadDTO) TableName() string {
	return "batch_navigation_payloads"
}

func fromDomain(p routing.NavigationPayload) NavigationPayloadDTO {
	return NavigationPayloadDTO{
		BatchID:     p.BatchID.Bytes(),
		BatchType:   p.BatchType,
		Phase:       p.Phase,
		Fallback:    p.Fallback,
		Payload:     p,
		GeneratedAt: p.GeneratedAt,
	}
}
