package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment status of a compra.
const (
	EstadoPagoPagado    = "PAGADO"
	EstadoPagoPendiente = "PENDIENTE"
	EstadoPagoParcial   = "PARCIAL"
)

const (
	SiNoSi = "SI"
	SiNoNo = "NO"
)

// Compra is the central purchase record. A compra may be split into
// divisiones: child compras referencing ParentCompra with a percentage of the
// parent's gross amount. A division's parent is never itself a division.
//
// Derived fields (TipoCambioValor, DiasTranscurridos, TotalDeudaEnDls,
// TotalEnPesos) are recomputed by finanzas.Recalcular before every persist.
type Compra struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	NumeroCompra  int       `gorm:"not null;default:0;index"`
	Intereses     string    `gorm:"type:varchar(2);not null;default:'NO'"`
	FechaDePago   *time.Time `gorm:"type:date"`
	FechaLiq      time.Time  `gorm:"type:date;not null;index"`
	RegimenFiscal string     `gorm:"type:varchar(120)"`
	ProductorID   uuid.UUID  `gorm:"type:uuid;index;not null"`

	// Division linkage: single-level only.
	ParentCompraID     *uuid.UUID       `gorm:"type:uuid;index"`
	PorcentajeDivision *decimal.Decimal `gorm:"type:decimal(6,2)"`

	UUIDFactura string `gorm:"type:varchar(80);column:uuid_factura"`
	// Factura holds the name of the invoicing party
	Factura string `gorm:"type:varchar(200)"`

	Pacas          *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CompraEnLibras *decimal.Decimal `gorm:"type:decimal(16,4)"`
	Anticipo       decimal.Decimal  `gorm:"type:decimal(16,4);not null;default:0"`
	Pago           *decimal.Decimal `gorm:"type:decimal(16,4)"`

	DiasTranscurridos int              `gorm:"not null;default:0"`
	TipoCambioID      *uuid.UUID       `gorm:"type:uuid"`
	TipoCambioValor   *decimal.Decimal `gorm:"type:decimal(12,4)"`

	RetencionDeudasUSD decimal.Decimal `gorm:"type:decimal(16,4);not null;default:0;column:retencion_deudas_usd"`
	RetencionDeudasMXN decimal.Decimal `gorm:"type:decimal(16,4);not null;default:0;column:retencion_deudas_mxn"`
	TotalDeudaEnDls    decimal.Decimal `gorm:"type:decimal(16,4);not null;default:0;column:total_deuda_en_dls"`
	RetencionResico    decimal.Decimal `gorm:"type:decimal(16,4);not null;default:0"`
	SaldoPendiente     decimal.Decimal `gorm:"type:decimal(16,4);not null;default:0"`

	EstatusFactura string          `gorm:"type:varchar(20);not null;default:'FACTURADO'"`
	Vencimiento    *time.Time      `gorm:"type:date"`
	CuentaDePago   string          `gorm:"type:varchar(120)"`
	MetodoDePago   string          `gorm:"type:varchar(60)"`
	Moneda         string          `gorm:"type:varchar(20);not null;default:'DOLARES'"`
	TotalEnPesos   decimal.Decimal `gorm:"type:decimal(16,4);not null;default:0"`
	CuentaProductor string         `gorm:"type:varchar(80)"`
	EstatusDePago  string          `gorm:"type:varchar(20);not null;default:'PENDIENTE'"`
	Contador       string          `gorm:"type:varchar(160)"`
	Correo         string          `gorm:"type:varchar(254)"`
	EstatusRep     string          `gorm:"type:varchar(30)"`
	UUIDPpd        string          `gorm:"type:varchar(80);column:uuid_ppd"`

	SolicitudFacturaEnviada bool       `gorm:"not null;default:false"`
	FechaSolicitudFactura   *time.Time `gorm:"type:date"`
	AnticiposRevisados      bool       `gorm:"not null;default:false"`
	DeudasRevisadas         bool       `gorm:"not null;default:false"`
	DivisionRevisada        bool       `gorm:"not null;default:false"`
	ExpedienteCompleto      bool       `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Productor    *Productor           `gorm:"foreignKey:ProductorID"`
	ParentCompra *Compra              `gorm:"foreignKey:ParentCompraID"`
	TipoCambio   *TipoCambio          `gorm:"foreignKey:TipoCambioID"`
	Divisiones   []Compra             `gorm:"foreignKey:ParentCompraID"`
	Aplicaciones []AplicacionAnticipo `gorm:"foreignKey:CompraID"`
	Documentos   []DocumentoCompra    `gorm:"foreignKey:CompraID;constraint:OnDelete:CASCADE"`
}

func (Compra) TableName() string { return "compras" }

func (c *Compra) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// EsDivision reports whether this compra is a child slice of another compra.
func (c *Compra) EsDivision() bool { return c.ParentCompraID != nil }
