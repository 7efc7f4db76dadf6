package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AplicacionAnticipo offsets part of an anticipo against part of a compra's
// balance on a given date. The (anticipo, compra, fecha) triple is unique.
type AplicacionAnticipo struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AnticipoID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_aplicacion_triple"`
	CompraID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_aplicacion_triple"`
	Fecha         time.Time       `gorm:"type:date;not null;uniqueIndex:idx_aplicacion_triple"`
	MontoAplicado decimal.Decimal `gorm:"type:decimal(16,4);not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Anticipo *Anticipo `gorm:"foreignKey:AnticipoID"`
	Compra   *Compra   `gorm:"foreignKey:CompraID"`
}

func (AplicacionAnticipo) TableName() string { return "aplicaciones_anticipo" }

func (a *AplicacionAnticipo) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
