package flujo

import (
	"testing"
	"time"

	"pagoscompras/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func compraBase() *model.Compra {
	pacas := decimal.NewFromInt(100)
	libras := decimal.NewFromInt(50000)
	return &model.Compra{
		NumeroCompra:   7,
		FechaLiq:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		ProductorID:    uuid.New(),
		Pacas:          &pacas,
		CompraEnLibras: &libras,
	}
}

func TestEtapaActual_CapturaIncompleta(t *testing.T) {
	c := compraBase()
	c.Pacas = nil
	assert.Equal(t, EtapaCaptura, EtapaActual(c).Codigo)
	assert.Equal(t, 20, EtapaActual(c).Progreso)
}

func TestEtapaActual_Progresion(t *testing.T) {
	c := compraBase()
	assert.Equal(t, EtapaAnticipos, EtapaActual(c).Codigo)

	c.AnticiposRevisados = true
	assert.Equal(t, EtapaDeudas, EtapaActual(c).Codigo)

	c.DeudasRevisadas = true
	assert.Equal(t, EtapaFacturas, EtapaActual(c).Codigo)

	c.Factura = "Algodones del Norte SA"
	// sin UUID la factura sigue pendiente
	assert.Equal(t, EtapaFacturas, EtapaActual(c).Codigo)
	c.UUIDFactura = "c0ffee00-0000-0000-0000-000000000001"
	assert.Equal(t, EtapaPago, EtapaActual(c).Codigo)

	hoy := time.Now()
	pago := decimal.NewFromInt(15000)
	c.FechaDePago = &hoy
	c.Pago = &pago
	c.EstatusDePago = model.EstadoPagoPagado
	assert.Equal(t, EtapaCompleto, EtapaActual(c).Codigo)
	assert.Equal(t, 100, EtapaActual(c).Progreso)
}

func TestEstados_DesbloqueoHastaPendiente(t *testing.T) {
	c := compraBase()
	c.AnticiposRevisados = true
	// etapa actual: deudas

	estados := Estados(c)
	assert.Len(t, estados, 6)

	unlocked := map[Etapa]bool{}
	for _, e := range estados {
		unlocked[e.Codigo] = e.Desbloqueada
	}
	assert.True(t, unlocked[EtapaCaptura])
	assert.True(t, unlocked[EtapaAnticipos])
	assert.True(t, unlocked[EtapaDeudas])
	assert.False(t, unlocked[EtapaFacturas])
	assert.False(t, unlocked[EtapaPago])
	assert.False(t, unlocked[EtapaCompleto])
}

func TestEstados_CompletoDesbloqueaTodo(t *testing.T) {
	c := compraBase()
	c.AnticiposRevisados = true
	c.DeudasRevisadas = true
	c.Factura = "Algodones del Norte SA"
	c.UUIDFactura = "c0ffee00-0000-0000-0000-000000000001"
	hoy := time.Now()
	pago := decimal.NewFromInt(15000)
	c.FechaDePago = &hoy
	c.Pago = &pago
	c.EstatusDePago = model.EstadoPagoPagado

	for _, e := range Estados(c) {
		assert.True(t, e.Desbloqueada, string(e.Codigo))
	}
}

func TestSecuencia_DivisionEmpiezaEnFacturas(t *testing.T) {
	c := compraBase()
	parentID := uuid.New()
	c.ParentCompraID = &parentID

	estados := Estados(c)
	assert.Len(t, estados, 3)
	assert.Equal(t, EtapaFacturas, estados[0].Codigo)
	assert.Equal(t, EtapaFacturas, EtapaActual(c).Codigo)

	// las etapas heredadas del padre nunca aplican a la division
	assert.False(t, Desbloqueada(c, EtapaCaptura))
	assert.False(t, Desbloqueada(c, EtapaDeudas))
	assert.True(t, Desbloqueada(c, EtapaFacturas))
}

func TestDesbloqueada_EtapaFutura(t *testing.T) {
	c := compraBase()
	// etapa actual: anticipos
	assert.True(t, Desbloqueada(c, EtapaCaptura))
	assert.True(t, Desbloqueada(c, EtapaAnticipos))
	assert.False(t, Desbloqueada(c, EtapaPago))
}
