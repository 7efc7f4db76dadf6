package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TipoCambio holds one exchange-rate row per calendar date.
type TipoCambio struct {
	ID     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Fecha  time.Time       `gorm:"type:date;uniqueIndex;not null"`
	TC     decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0;column:tc"`
	Fuente string          `gorm:"type:varchar(120);not null;default:'Diario Oficial de la Federacion'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TipoCambio) TableName() string { return "tipos_cambio" }

func (t *TipoCambio) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
