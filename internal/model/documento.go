package model

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Workflow stage a document belongs to.
const (
	EtapaDocSolicitudFactura = "solicitud_factura"
	EtapaDocFactura          = "factura"
	EtapaDocPago             = "pago"
	EtapaDocOtro             = "otro"
)

// DocumentoCompra is an uploaded artifact attached to a compra's expediente.
// Archivo is the storage locator relative to DOC_STORAGE_PATH; rows are
// removed together with their compra.
type DocumentoCompra struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompraID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Etapa       string    `gorm:"type:varchar(30);not null;default:'otro'"`
	Descripcion string    `gorm:"type:varchar(200)"`
	Archivo     string    `gorm:"type:varchar(300);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (DocumentoCompra) TableName() string { return "documentos_compra" }

// NombreOriginal recovers the upload filename from the storage locator,
// which has the form compras/AAAA/MM/{uuid}_{nombre}.
func (d *DocumentoCompra) NombreOriginal() string {
	base := path.Base(d.Archivo)
	if i := strings.IndexByte(base, '_'); i >= 0 && i+1 < len(base) {
		return base[i+1:]
	}
	return base
}

func (d *DocumentoCompra) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
