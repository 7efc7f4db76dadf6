package dto

import "github.com/shopspring/decimal"

type CrearAnticipoRequest struct {
	FechaPago          string           `json:"fecha_pago"           validate:"required,datetime=2006-01-02"`
	ProductorID        string           `json:"productor_id"         validate:"required,uuid"`
	PersonaQueFactura  string           `json:"persona_que_factura"`
	Factura            string           `json:"factura"`
	MontoAnticipo      decimal.Decimal  `json:"monto_anticipo"       validate:"required,gt=0"`
	Moneda             string           `json:"moneda"               validate:"omitempty,oneof=PESOS DOLARES PESOS/DOLARES"`
	Estado             string           `json:"estado"               validate:"omitempty,oneof=FACTURADO PENDIENTE"`
	UUIDNotaCredito    string           `json:"uuid_nota_credito"`
	TotalEnPesos       *decimal.Decimal `json:"total_en_pesos"`
	CuentaDePago       string           `json:"cuenta_de_pago"`
	Cuenta             string           `json:"cuenta"`
	Contador           string           `json:"contador"`
	CorreoParaFacturas string           `json:"correo_para_facturas" validate:"omitempty,email"`
	Telefono           string           `json:"telefono"`
	Observaciones      string           `json:"observaciones"`
}

type ActualizarAnticipoRequest struct {
	FechaPago          *string          `json:"fecha_pago"           validate:"omitempty,datetime=2006-01-02"`
	PersonaQueFactura  *string          `json:"persona_que_factura"`
	Factura            *string          `json:"factura"`
	MontoAnticipo      *decimal.Decimal `json:"monto_anticipo"       validate:"omitempty,gt=0"`
	Moneda             *string          `json:"moneda"               validate:"omitempty,oneof=PESOS DOLARES PESOS/DOLARES"`
	Estado             *string          `json:"estado"               validate:"omitempty,oneof=FACTURADO PENDIENTE"`
	UUIDNotaCredito    *string          `json:"uuid_nota_credito"`
	TotalEnPesos       *decimal.Decimal `json:"total_en_pesos"`
	CuentaDePago       *string          `json:"cuenta_de_pago"`
	Cuenta             *string          `json:"cuenta"`
	Contador           *string          `json:"contador"`
	CorreoParaFacturas *string          `json:"correo_para_facturas" validate:"omitempty,email"`
	Telefono           *string          `json:"telefono"`
	Observaciones      *string          `json:"observaciones"`
}

type AnticipoFilter struct {
	ProductorID      string `form:"productor_id"`
	PendienteAplicar string `form:"pendiente_aplicar"`
	Page             int    `form:"page"`
	Limit            int    `form:"limit"`
}

type AnticipoResponse struct {
	ID               string          `json:"id"`
	NumeroAnticipo   *int            `json:"numero_anticipo"`
	FechaPago        string          `json:"fecha_pago"`
	ProductorID      string          `json:"productor_id"`
	ProductorCodigo  string          `json:"productor_codigo,omitempty"`
	ProductorNombre  string          `json:"productor_nombre,omitempty"`
	MontoAnticipo    decimal.Decimal `json:"monto_anticipo"`
	MontoAplicado    decimal.Decimal `json:"monto_aplicado"`
	SaldoDisponible  decimal.Decimal `json:"saldo_disponible"`
	Moneda           string          `json:"moneda"`
	PendienteAplicar string          `json:"pendiente_aplicar"`
	Estado           string          `json:"estado"`
	Factura          string          `json:"factura,omitempty"`
	Observaciones    string          `json:"observaciones,omitempty"`
}

type AnticipoListResponse struct {
	Data  []AnticipoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
