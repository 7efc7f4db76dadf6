package dto

import "github.com/shopspring/decimal"

type CrearTipoCambioRequest struct {
	Fecha  string          `json:"fecha"  validate:"required,datetime=2006-01-02"`
	TC     decimal.Decimal `json:"tc"     validate:"required,gt=0"`
	Fuente string          `json:"fuente"`
}

type ActualizarTipoCambioRequest struct {
	TC     decimal.Decimal `json:"tc"     validate:"required,gt=0"`
	Fuente string          `json:"fuente"`
}

type TipoCambioFilter struct {
	Desde string `form:"desde"`
	Hasta string `form:"hasta"`
	Limit int    `form:"limit"`
}

type TipoCambioResponse struct {
	ID     string          `json:"id"`
	Fecha  string          `json:"fecha"`
	TC     decimal.Decimal `json:"tc"`
	Fuente string          `json:"fuente"`
}

// SyncTipoCambioRequest triggers a Banxico sync for the last N days.
type SyncTipoCambioRequest struct {
	Days int `json:"days" validate:"omitempty,min=1,max=365"`
}

type SyncTipoCambioResponse struct {
	Creados      int `json:"creados"`
	Actualizados int `json:"actualizados"`
	Total        int `json:"total"`
}
