package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel handles the UUID primary key and system-managed timestamps
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns an ID unless the caller already chose one
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	base.ID = base.EnsureID()
	return
}

// EnsureID returns the current ID, generating one first if it is unset.
func (base *BaseModel) EnsureID() uuid.UUID {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	return base.ID
}
