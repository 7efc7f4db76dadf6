package dto

import "github.com/shopspring/decimal"

// DashboardResponse mirrors the home-screen aggregates.
type DashboardResponse struct {
	ProductoresActivos  int64               `json:"productores_activos"`
	AnticiposTotal      decimal.Decimal     `json:"anticipos_total"`
	AnticiposTotalFmt   string              `json:"anticipos_total_fmt"`
	AnticiposCount      int64               `json:"anticipos_count"`
	ComprasTotalLibras  decimal.Decimal     `json:"compras_total_libras"`
	ComprasTotalFmt     string              `json:"compras_total_fmt"`
	ComprasCount        int64               `json:"compras_count"`
	TipoCambioUltimo    *TipoCambioResponse `json:"tipo_cambio_ultimo,omitempty"`
}
