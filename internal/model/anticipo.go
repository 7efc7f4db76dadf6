package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Moneda values shared by Anticipo and Compra.
const (
	MonedaPesos        = "PESOS"
	MonedaDolares      = "DOLARES"
	MonedaPesosDolares = "PESOS/DOLARES"
)

// Pendiente-aplicar status derived from the anticipo's remaining balance.
const (
	PendienteAplicarPendiente = "PENDIENTE"
	PendienteAplicarAplicado  = "APLICADO"
)

// Invoicing status.
const (
	EstadoFacturaFacturado = "FACTURADO"
	EstadoFacturaPendiente = "PENDIENTE"
)

// Anticipo is a prepayment made to a productor, later offset against
// compras through AplicacionAnticipo rows. PendienteAplicar is derived:
// APLICADO once the applied total reaches MontoAnticipo, else PENDIENTE.
type Anticipo struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	NumeroAnticipo    *int       `gorm:"uniqueIndex"`
	FechaPago         time.Time  `gorm:"type:date;not null"`
	ProductorID       uuid.UUID  `gorm:"type:uuid;index;not null"`
	PersonaQueFactura string     `gorm:"type:varchar(200)"`
	// Factura holds the invoice UUID
	Factura          string           `gorm:"type:varchar(80)"`
	MontoAnticipo    decimal.Decimal  `gorm:"type:decimal(16,4);not null;default:0"`
	Moneda           string           `gorm:"type:varchar(20);not null;default:'DOLARES'"`
	PendienteAplicar string           `gorm:"type:varchar(20);not null;default:'PENDIENTE'"`
	Estado           string           `gorm:"type:varchar(20);not null;default:'FACTURADO'"`
	UUIDNotaCredito  string           `gorm:"type:varchar(80);column:uuid_nota_credito"`
	TotalEnPesos     *decimal.Decimal `gorm:"type:decimal(16,4)"`
	CuentaDePago     string           `gorm:"type:varchar(80)"`
	Cuenta           string           `gorm:"type:varchar(80)"`
	Contador         string           `gorm:"type:varchar(160)"`
	CorreoParaFacturas string         `gorm:"type:varchar(254)"`
	Telefono         string           `gorm:"type:varchar(30)"`
	Observaciones    string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Productor    *Productor           `gorm:"foreignKey:ProductorID"`
	Aplicaciones []AplicacionAnticipo `gorm:"foreignKey:AnticipoID"`
}

func (Anticipo) TableName() string { return "anticipos" }

func (a *Anticipo) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
