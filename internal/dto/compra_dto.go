package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearCompraRequest covers the captura stage: the minimal data to open a
// compra. Everything else is filled in through the per-stage updates.
type CrearCompraRequest struct {
	NumeroCompra   int              `json:"numero_compra"    validate:"required,gt=0"`
	FechaLiq       string           `json:"fecha_liq"        validate:"required,datetime=2006-01-02"`
	ProductorID    string           `json:"productor_id"     validate:"required,uuid"`
	Pacas          *decimal.Decimal `json:"pacas"            validate:"required"`
	CompraEnLibras *decimal.Decimal `json:"compra_en_libras" validate:"required"`
	Moneda         string           `json:"moneda"           validate:"omitempty,oneof=PESOS DOLARES PESOS/DOLARES"`
}

// ActualizarCompraRequest is the full operational edit: any nil field is left
// untouched. Derived fields are recomputed after applying the changes.
type ActualizarCompraRequest struct {
	NumeroCompra       *int             `json:"numero_compra"        validate:"omitempty,gt=0"`
	Intereses          *string          `json:"intereses"            validate:"omitempty,oneof=SI NO"`
	FechaDePago        *string          `json:"fecha_de_pago"        validate:"omitempty,datetime=2006-01-02"`
	FechaLiq           *string          `json:"fecha_liq"            validate:"omitempty,datetime=2006-01-02"`
	UUIDFactura        *string          `json:"uuid_factura"`
	Factura            *string          `json:"factura"`
	Pacas              *decimal.Decimal `json:"pacas"`
	CompraEnLibras     *decimal.Decimal `json:"compra_en_libras"`
	Anticipo           *decimal.Decimal `json:"anticipo"`
	Pago               *decimal.Decimal `json:"pago"`
	TipoCambioID       *string          `json:"tipo_cambio_id"       validate:"omitempty,uuid"`
	RetencionDeudasUSD *decimal.Decimal `json:"retencion_deudas_usd"`
	RetencionDeudasMXN *decimal.Decimal `json:"retencion_deudas_mxn"`
	RetencionResico    *decimal.Decimal `json:"retencion_resico"`
	SaldoPendiente     *decimal.Decimal `json:"saldo_pendiente"`
	EstatusFactura     *string          `json:"estatus_factura"      validate:"omitempty,oneof=FACTURADO PENDIENTE"`
	Vencimiento        *string          `json:"vencimiento"          validate:"omitempty,datetime=2006-01-02"`
	CuentaDePago       *string          `json:"cuenta_de_pago"`
	MetodoDePago       *string          `json:"metodo_de_pago"`
	Moneda             *string          `json:"moneda"               validate:"omitempty,oneof=PESOS DOLARES PESOS/DOLARES"`
	CuentaProductor    *string          `json:"cuenta_productor"`
	EstatusDePago      *string          `json:"estatus_de_pago"      validate:"omitempty,oneof=PAGADO PENDIENTE PARCIAL"`
	Contador           *string          `json:"contador"`
	Correo             *string          `json:"correo"               validate:"omitempty,email"`
	EstatusRep         *string          `json:"estatus_rep"`
	UUIDPpd            *string          `json:"uuid_ppd"`
	ExpedienteCompleto *bool            `json:"expediente_completo"`
}

// ActualizarEtapaRequest carries the per-stage field subsets. The service
// applies only the fields that belong to the requested stage.
type ActualizarEtapaRequest struct {
	// captura
	NumeroCompra   *int             `json:"numero_compra"    validate:"omitempty,gt=0"`
	FechaLiq       *string          `json:"fecha_liq"        validate:"omitempty,datetime=2006-01-02"`
	ProductorID    *string          `json:"productor_id"     validate:"omitempty,uuid"`
	Pacas          *decimal.Decimal `json:"pacas"`
	CompraEnLibras *decimal.Decimal `json:"compra_en_libras"`
	// tc
	TipoCambioID    *string          `json:"tipo_cambio_id"    validate:"omitempty,uuid"`
	TipoCambioValor *decimal.Decimal `json:"tipo_cambio_valor" validate:"omitempty,gt=0"`
	// anticipos
	Anticipo           *decimal.Decimal `json:"anticipo"`
	AnticiposRevisados *bool            `json:"anticipos_revisados"`
	// deudas
	RetencionDeudasUSD *decimal.Decimal `json:"retencion_deudas_usd"`
	RetencionDeudasMXN *decimal.Decimal `json:"retencion_deudas_mxn"`
	DeudasRevisadas    *bool            `json:"deudas_revisadas"`
	// facturas
	SolicitudFacturaEnviada *bool   `json:"solicitud_factura_enviada"`
	FechaSolicitudFactura   *string `json:"fecha_solicitud_factura" validate:"omitempty,datetime=2006-01-02"`
	Factura                 *string `json:"factura"`
	UUIDFactura             *string `json:"uuid_factura"`
	Contador                *string `json:"contador"`
	Correo                  *string `json:"correo"          validate:"omitempty,email"`
	EstatusFactura          *string `json:"estatus_factura" validate:"omitempty,oneof=FACTURADO PENDIENTE"`
	// pago
	FechaDePago     *string          `json:"fecha_de_pago"    validate:"omitempty,datetime=2006-01-02"`
	Pago            *decimal.Decimal `json:"pago"`
	CuentaDePago    *string          `json:"cuenta_de_pago"`
	MetodoDePago    *string          `json:"metodo_de_pago"`
	Moneda          *string          `json:"moneda"           validate:"omitempty,oneof=PESOS DOLARES PESOS/DOLARES"`
	CuentaProductor *string          `json:"cuenta_productor"`
	EstatusDePago   *string          `json:"estatus_de_pago"  validate:"omitempty,oneof=PAGADO PENDIENTE PARCIAL"`
}

type CompraFilter struct {
	Q             string `form:"q"`
	ProductorID   string `form:"productor_id"`
	FechaDesde    string `form:"fecha_desde"`
	FechaHasta    string `form:"fecha_hasta"`
	EstatusDePago string `form:"estatus_de_pago"`
	Page          int    `form:"page"`
	Limit         int    `form:"limit"`
}

// CrearDivisionRequest splits a compra. Exactly one of porcentaje or monto
// must be provided.
type CrearDivisionRequest struct {
	Porcentaje  *decimal.Decimal `json:"porcentaje"`
	Monto       *decimal.Decimal `json:"monto"`
	Factura     string           `json:"factura"`
	UUIDFactura string           `json:"uuid_factura"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EtapaResponse struct {
	Codigo       string `json:"codigo"`
	Label        string `json:"label"`
	Progreso     int    `json:"progreso"`
	Desbloqueada bool   `json:"desbloqueada"`
}

type FlujoResponse struct {
	Etapa    string          `json:"etapa"`
	Label    string          `json:"label"`
	Progreso int             `json:"progreso"`
	Etapas   []EtapaResponse `json:"etapas"`
}

type CompraResponse struct {
	ID                 string           `json:"id"`
	NumeroCompra       int              `json:"numero_compra"`
	FechaLiq           string           `json:"fecha_liq"`
	FechaDePago        *string          `json:"fecha_de_pago,omitempty"`
	ProductorID        string           `json:"productor_id"`
	ProductorCodigo    string           `json:"productor_codigo,omitempty"`
	ProductorNombre    string           `json:"productor_nombre,omitempty"`
	RegimenFiscal      string           `json:"regimen_fiscal,omitempty"`
	ParentCompraID     *string          `json:"parent_compra_id,omitempty"`
	PorcentajeDivision *decimal.Decimal `json:"porcentaje_division,omitempty"`
	UUIDFactura        string           `json:"uuid_factura,omitempty"`
	Factura            string           `json:"factura,omitempty"`
	Pacas              *decimal.Decimal `json:"pacas,omitempty"`
	CompraEnLibras     *decimal.Decimal `json:"compra_en_libras,omitempty"`
	Pago               *decimal.Decimal `json:"pago,omitempty"`
	DiasTranscurridos  int              `json:"dias_transcurridos"`
	TipoCambioValor    *decimal.Decimal `json:"tipo_cambio_valor,omitempty"`
	RetencionDeudasUSD decimal.Decimal  `json:"retencion_deudas_usd"`
	RetencionDeudasMXN decimal.Decimal  `json:"retencion_deudas_mxn"`
	TotalDeudaEnDls    decimal.Decimal  `json:"total_deuda_en_dls"`
	Moneda             string           `json:"moneda"`
	TotalEnPesos       decimal.Decimal  `json:"total_en_pesos"`
	EstatusDePago      string           `json:"estatus_de_pago"`
	SaldoPorPagar      decimal.Decimal  `json:"saldo_por_pagar"`
	SaldoPorPagarFmt   string           `json:"saldo_por_pagar_fmt"`
	Flujo              FlujoResponse    `json:"flujo"`
}

type CompraListItem struct {
	ID              string           `json:"id"`
	NumeroCompra    int              `json:"numero_compra"`
	FechaLiq        string           `json:"fecha_liq"`
	ProductorCodigo string           `json:"productor_codigo"`
	ProductorNombre string           `json:"productor_nombre"`
	Pacas           *decimal.Decimal `json:"pacas,omitempty"`
	CompraEnLibras  *decimal.Decimal `json:"compra_en_libras,omitempty"`
	Pago            *decimal.Decimal `json:"pago,omitempty"`
	EstatusDePago   string           `json:"estatus_de_pago"`
	EsDivision      bool             `json:"es_division"`
	Etapa           string           `json:"etapa"`
	EtapaLabel      string           `json:"etapa_label"`
	Progreso        int              `json:"progreso"`
	SaldoPorPagar   decimal.Decimal  `json:"saldo_por_pagar"`
}

type CompraListResponse struct {
	Data  []CompraListItem `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

type DivisionDisponibleResponse struct {
	PorcentajeDisponible decimal.Decimal `json:"porcentaje_disponible"`
	MontoDisponible      decimal.Decimal `json:"monto_disponible"`
}
