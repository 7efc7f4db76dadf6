package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Productor represents a supplier (cotton grower) with payout data.
type Productor struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Codigo          string    `gorm:"type:varchar(40);uniqueIndex;not null"`
	Nombre          string    `gorm:"type:varchar(200);index;not null"`
	RegimenFiscal   string    `gorm:"type:varchar(120)"`
	CuentaProductor string    `gorm:"type:varchar(80)"`
	Telefono        string    `gorm:"type:varchar(30)"`
	CorreoFacturas  string    `gorm:"type:varchar(254)"`
	Activo          bool      `gorm:"not null;default:true"`
	Notas           string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Anticipos []Anticipo `gorm:"foreignKey:ProductorID"`
	Compras   []Compra   `gorm:"foreignKey:ProductorID"`
}

func (Productor) TableName() string { return "productores" }

func (p *Productor) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
