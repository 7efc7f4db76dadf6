package finanzas

import (
	"testing"
	"time"

	"pagoscompras/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func fecha(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestRecalcular_TipoCambioExplicitoGana(t *testing.T) {
	explicito := &model.TipoCambio{ID: uuid.New(), Fecha: fecha("2025-03-01"), TC: dec("17.5000")}
	delDia := &model.TipoCambio{ID: uuid.New(), Fecha: fecha("2025-03-10"), TC: dec("18.0000")}

	c := &model.Compra{
		FechaLiq:   fecha("2025-03-10"),
		TipoCambio: explicito,
		Moneda:     model.MonedaDolares,
		Pago:       decPtr("1000"),
	}
	Recalcular(c, delDia)

	assert.Equal(t, "17.5", c.TipoCambioValor.String())
	assert.Equal(t, "17500", c.TotalEnPesos.String())
}

func TestRecalcular_TomaTipoCambioDelDia(t *testing.T) {
	delDia := &model.TipoCambio{ID: uuid.New(), Fecha: fecha("2025-03-10"), TC: dec("18.2500")}

	c := &model.Compra{
		FechaLiq: fecha("2025-03-10"),
		Moneda:   model.MonedaDolares,
		Pago:     decPtr("200"),
	}
	Recalcular(c, delDia)

	assert.NotNil(t, c.TipoCambioID)
	assert.Equal(t, delDia.ID, *c.TipoCambioID)
	assert.Equal(t, "18.25", c.TipoCambioValor.String())
	assert.Equal(t, "3650", c.TotalEnPesos.String())
}

func TestRecalcular_SinTipoCambio(t *testing.T) {
	c := &model.Compra{
		FechaLiq:           fecha("2025-03-10"),
		Moneda:             model.MonedaDolares,
		Pago:               decPtr("200"),
		RetencionDeudasUSD: dec("50"),
		RetencionDeudasMXN: dec("900"),
	}
	Recalcular(c, nil)

	// sin tasa: la deuda queda solo con el componente en dolares y el total
	// en pesos no se puede derivar
	assert.Nil(t, c.TipoCambioValor)
	assert.Equal(t, "50", c.TotalDeudaEnDls.String())
	assert.True(t, c.TotalEnPesos.IsZero())
}

func TestRecalcular_DeudaMixta(t *testing.T) {
	delDia := &model.TipoCambio{ID: uuid.New(), Fecha: fecha("2025-03-10"), TC: dec("18")}
	c := &model.Compra{
		FechaLiq:           fecha("2025-03-10"),
		Moneda:             model.MonedaDolares,
		RetencionDeudasUSD: dec("100"),
		RetencionDeudasMXN: dec("900"),
	}
	Recalcular(c, delDia)

	// 100 + 900/18 = 150
	assert.Equal(t, "150", c.TotalDeudaEnDls.String())
}

func TestRecalcular_MonedaPesos(t *testing.T) {
	delDia := &model.TipoCambio{ID: uuid.New(), Fecha: fecha("2025-03-10"), TC: dec("18")}
	c := &model.Compra{
		FechaLiq: fecha("2025-03-10"),
		Moneda:   model.MonedaPesos,
		Pago:     decPtr("5000"),
	}
	Recalcular(c, delDia)

	// en pesos el pago ya esta en moneda nacional
	assert.Equal(t, "5000", c.TotalEnPesos.String())
}

func TestRecalcular_DiasTranscurridos(t *testing.T) {
	pago := fecha("2025-03-25")
	c := &model.Compra{
		FechaLiq:    fecha("2025-03-10"),
		FechaDePago: &pago,
	}
	Recalcular(c, nil)
	assert.Equal(t, 15, c.DiasTranscurridos)
}

func TestRecalcular_Idempotente(t *testing.T) {
	delDia := &model.TipoCambio{ID: uuid.New(), Fecha: fecha("2025-03-10"), TC: dec("18.1234")}
	c := &model.Compra{
		FechaLiq:           fecha("2025-03-10"),
		Moneda:             model.MonedaDolares,
		Pago:               decPtr("1234.56"),
		RetencionDeudasUSD: dec("10"),
		RetencionDeudasMXN: dec("200"),
	}
	Recalcular(c, delDia)
	primeraDeuda := c.TotalDeudaEnDls
	primerTotal := c.TotalEnPesos

	Recalcular(c, delDia)
	assert.True(t, primeraDeuda.Equal(c.TotalDeudaEnDls))
	assert.True(t, primerTotal.Equal(c.TotalEnPesos))
}

func TestSaldos(t *testing.T) {
	c := &model.Compra{Pago: decPtr("15000")}
	assert.Equal(t, "11000", SaldoPorPagar(c, dec("4000")).String())

	a := &model.Anticipo{MontoAnticipo: dec("10000")}
	assert.Equal(t, "6000", SaldoDisponible(a, dec("4000")).String())
}

func TestBasePago_SinPagoUsaTotalEnPesos(t *testing.T) {
	c := &model.Compra{TotalEnPesos: dec("9876.5432")}
	assert.Equal(t, "9876.5432", BasePago(c).String())
}

func TestActualizarPendiente(t *testing.T) {
	a := &model.Anticipo{MontoAnticipo: dec("10000")}

	ActualizarPendiente(a, dec("4000"))
	assert.Equal(t, model.PendienteAplicarPendiente, a.PendienteAplicar)

	ActualizarPendiente(a, dec("10000"))
	assert.Equal(t, model.PendienteAplicarAplicado, a.PendienteAplicar)

	// volver a quedar con saldo reabre el estatus
	ActualizarPendiente(a, dec("9999.99"))
	assert.Equal(t, model.PendienteAplicarPendiente, a.PendienteAplicar)
}

func TestProrrateo(t *testing.T) {
	// 4500 de una base de 15000 son 30%
	pct := PorcentajeDesdeMonto(dec("4500"), dec("15000"))
	assert.Equal(t, "30", pct.String())

	assert.Equal(t, "4500", MontoDesdePorcentaje(dec("15000"), pct).String())
	assert.Equal(t, "36", Prorratear(dec("120"), pct).String())
}

func TestBaseDivision_UsaLibras(t *testing.T) {
	// las divisiones se miden contra las libras, no contra el pago
	c := &model.Compra{CompraEnLibras: decPtr("50000"), Pago: decPtr("15000")}
	assert.Equal(t, "50000", BaseDivision(c).String())
	assert.Equal(t, "9", PorcentajeDesdeMonto(dec("4500"), BaseDivision(c)).String())

	assert.True(t, BaseDivision(&model.Compra{}).IsZero())
}
