package dto

import "github.com/shopspring/decimal"

type AplicarAnticipoRequest struct {
	AnticipoID    string          `json:"anticipo_id"    validate:"required,uuid"`
	CompraID      string          `json:"compra_id"      validate:"required,uuid"`
	Fecha         string          `json:"fecha"          validate:"required,datetime=2006-01-02"`
	MontoAplicado decimal.Decimal `json:"monto_aplicado" validate:"required"`
}

type ActualizarAplicacionRequest struct {
	Fecha         *string          `json:"fecha"          validate:"omitempty,datetime=2006-01-02"`
	MontoAplicado *decimal.Decimal `json:"monto_aplicado"`
}

type AplicacionResponse struct {
	ID                      string          `json:"id"`
	AnticipoID              string          `json:"anticipo_id"`
	CompraID                string          `json:"compra_id"`
	Fecha                   string          `json:"fecha"`
	MontoAplicado           decimal.Decimal `json:"monto_aplicado"`
	AnticipoSaldoDisponible decimal.Decimal `json:"anticipo_saldo_disponible"`
	CompraSaldoPorPagar     decimal.Decimal `json:"compra_saldo_por_pagar"`
}
