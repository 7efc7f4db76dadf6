// Package finanzas holds the derived monetary math for anticipos and compras.
// Every function here is pure: it takes the current field values (and any
// aggregate totals the caller already queried) and returns or assigns the
// derived results. The persistence layer calls Recalcular before every save of
// a Compra so the stored derived columns never drift from their inputs.
package finanzas

import (
	"github.com/shopspring/decimal"

	"pagoscompras/internal/model"
)

var cien = decimal.NewFromInt(100)

// Recalcular resolves the exchange rate, the elapsed days, the total debt in
// dollars and the peso total of a compra. tcDelDia is the exchange-rate row
// dated exactly on the liquidation date (nil when none exists); it is only
// used when the compra carries no explicit rate reference.
//
// Calling Recalcular twice with unchanged inputs yields unchanged outputs.
func Recalcular(c *model.Compra, tcDelDia *model.TipoCambio) {
	// Rate resolution: an explicit reference wins; otherwise the rate dated
	// on fecha_liq; otherwise fields are left as-is.
	if c.TipoCambio != nil {
		v := c.TipoCambio.TC
		c.TipoCambioValor = &v
	} else if tcDelDia != nil {
		tc := *tcDelDia
		c.TipoCambioID = &tc.ID
		c.TipoCambio = &tc
		v := tc.TC
		c.TipoCambioValor = &v
	}

	if c.FechaDePago != nil {
		c.DiasTranscurridos = int(c.FechaDePago.Sub(c.FechaLiq).Hours() / 24)
	}

	tcVal := decimal.Zero
	if c.TipoCambioValor != nil {
		tcVal = *c.TipoCambioValor
	}

	if tcVal.IsPositive() {
		c.TotalDeudaEnDls = c.RetencionDeudasUSD.Add(c.RetencionDeudasMXN.Div(tcVal)).Round(4)
	} else {
		c.TotalDeudaEnDls = c.RetencionDeudasUSD
	}

	if c.Pago != nil {
		switch {
		case c.Moneda == model.MonedaDolares && tcVal.IsPositive():
			c.TotalEnPesos = c.Pago.Mul(tcVal).Round(4)
		case c.Moneda == model.MonedaPesos:
			c.TotalEnPesos = *c.Pago
		}
	}
}

// BasePago is the effective payment base of a compra: the explicit payment
// amount when captured, else the computed peso total.
func BasePago(c *model.Compra) decimal.Decimal {
	if c.Pago != nil {
		return *c.Pago
	}
	return c.TotalEnPesos
}

// SaldoPorPagar is the outstanding balance of a compra given the sum of its
// applied anticipos.
func SaldoPorPagar(c *model.Compra, totalAplicado decimal.Decimal) decimal.Decimal {
	return BasePago(c).Sub(totalAplicado)
}

// SaldoDisponible is the remaining balance of an anticipo given the sum of
// its applications.
func SaldoDisponible(a *model.Anticipo, totalAplicado decimal.Decimal) decimal.Decimal {
	return a.MontoAnticipo.Sub(totalAplicado)
}

// ActualizarPendiente recomputes the anticipo's derived pending-to-apply
// status from its remaining balance.
func ActualizarPendiente(a *model.Anticipo, totalAplicado decimal.Decimal) {
	if SaldoDisponible(a, totalAplicado).LessThanOrEqual(decimal.Zero) {
		a.PendienteAplicar = model.PendienteAplicarAplicado
	} else {
		a.PendienteAplicar = model.PendienteAplicarPendiente
	}
}

// ── Division proration ───────────────────────────────────────────────────────

// BaseDivision is the gross amount divisions of a compra are measured
// against: its compra en libras. Zero when the quantity is not captured yet.
func BaseDivision(c *model.Compra) decimal.Decimal {
	if c.CompraEnLibras != nil {
		return *c.CompraEnLibras
	}
	return decimal.Zero
}

// PorcentajeDesdeMonto derives the division percentage a monto represents
// over the parent's gross amount.
func PorcentajeDesdeMonto(monto, base decimal.Decimal) decimal.Decimal {
	return monto.Mul(cien).Div(base)
}

// MontoDesdePorcentaje derives the monto a percentage of the parent's gross
// amount represents.
func MontoDesdePorcentaje(base, porcentaje decimal.Decimal) decimal.Decimal {
	return base.Mul(porcentaje).Div(cien)
}

// Prorratear scales a parent value by a division percentage.
func Prorratear(valor, porcentaje decimal.Decimal) decimal.Decimal {
	return valor.Mul(porcentaje).Div(cien)
}
