package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductorRequest struct {
	Codigo          string `json:"codigo"           validate:"required,min=1,max=40"`
	Nombre          string `json:"nombre"           validate:"required,min=2"`
	RegimenFiscal   string `json:"regimen_fiscal"`
	CuentaProductor string `json:"cuenta_productor"`
	Telefono        string `json:"telefono"`
	CorreoFacturas  string `json:"correo_facturas"  validate:"omitempty,email"`
	Notas           string `json:"notas"`
}

type ActualizarProductorRequest struct {
	Nombre          *string `json:"nombre"           validate:"omitempty,min=2"`
	RegimenFiscal   *string `json:"regimen_fiscal"`
	CuentaProductor *string `json:"cuenta_productor"`
	Telefono        *string `json:"telefono"`
	CorreoFacturas  *string `json:"correo_facturas"  validate:"omitempty,email"`
	Activo          *bool   `json:"activo"`
	Notas           *string `json:"notas"`
}

type ProductorFilter struct {
	Q                string `form:"q"`
	IncluirInactivos bool   `form:"incluir_inactivos"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductorResponse struct {
	ID              string `json:"id"`
	Codigo          string `json:"codigo"`
	Nombre          string `json:"nombre"`
	RegimenFiscal   string `json:"regimen_fiscal,omitempty"`
	CuentaProductor string `json:"cuenta_productor,omitempty"`
	Telefono        string `json:"telefono,omitempty"`
	CorreoFacturas  string `json:"correo_facturas,omitempty"`
	Activo          bool   `json:"activo"`
	Notas           string `json:"notas,omitempty"`
}
