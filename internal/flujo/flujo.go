// Package flujo derives the workflow stage of a compra from its captured
// data. The lifecycle is a fixed ordered list of stage descriptors; the
// current stage is the first one whose guard is unmet. Divisiones inherit the
// parent's review work, so their effective sequence starts at facturas.
package flujo

import (
	"github.com/google/uuid"

	"pagoscompras/internal/model"
)

type Etapa string

const (
	EtapaCaptura   Etapa = "captura"
	EtapaAnticipos Etapa = "anticipos"
	EtapaDeudas    Etapa = "deudas"
	EtapaFacturas  Etapa = "facturas"
	EtapaPago      Etapa = "pago"
	EtapaCompleto  Etapa = "completo"
)

// Descriptor ties a stage code to its display label, its progress value and
// the guard that must hold before the workflow moves past it.
type Descriptor struct {
	Codigo   Etapa
	Label    string
	Progreso int
	Cumplida func(c *model.Compra) bool
}

// Ordered lifecycle. The completo entry is terminal: its guard never gates.
var etapas = []Descriptor{
	{EtapaCaptura, "Completar captura", 20, CapturaCompleta},
	{EtapaAnticipos, "Revisar anticipos", 40, func(c *model.Compra) bool { return c.AnticiposRevisados }},
	{EtapaDeudas, "Revisar deudas", 60, func(c *model.Compra) bool { return c.DeudasRevisadas }},
	{EtapaFacturas, "Solicitar/registrar facturas", 80, FacturaRegistrada},
	{EtapaPago, "Registrar pago", 95, PagoRegistrado},
	{EtapaCompleto, "Completado", 100, func(*model.Compra) bool { return true }},
}

// CapturaCompleta reports whether the compra's base data is fully captured.
func CapturaCompleta(c *model.Compra) bool {
	return c.NumeroCompra != 0 &&
		!c.FechaLiq.IsZero() &&
		c.ProductorID != uuid.Nil &&
		c.Pacas != nil &&
		c.CompraEnLibras != nil
}

// FacturaRegistrada requires both the invoicing name and the invoice UUID.
func FacturaRegistrada(c *model.Compra) bool {
	return c.Factura != "" && c.UUIDFactura != ""
}

// PagoRegistrado requires a payment date, a payment amount and PAGADO status.
func PagoRegistrado(c *model.Compra) bool {
	return c.FechaDePago != nil &&
		c.Pago != nil &&
		c.EstatusDePago == model.EstadoPagoPagado
}

// secuencia returns the descriptors that apply to this compra: divisiones
// skip captura/anticipos/deudas because they inherit the parent's review.
func secuencia(c *model.Compra) []Descriptor {
	if c.EsDivision() {
		return etapas[3:]
	}
	return etapas
}

// EtapaActual returns the first stage whose guard is unmet, or completo.
func EtapaActual(c *model.Compra) Descriptor {
	seq := secuencia(c)
	for _, e := range seq[:len(seq)-1] {
		if !e.Cumplida(c) {
			return e
		}
	}
	return seq[len(seq)-1]
}

// EstadoEtapa is one row of the navigation view: a stage plus whether it is
// unlocked for editing.
type EstadoEtapa struct {
	Codigo       Etapa
	Label        string
	Progreso     int
	Desbloqueada bool
}

// Estados lists every applicable stage with its unlock status. Stages up to
// and including the pending one are unlocked; once a compra is completo,
// every stage unlocks for review.
func Estados(c *model.Compra) []EstadoEtapa {
	actual := EtapaActual(c)
	seq := secuencia(c)
	completo := actual.Codigo == EtapaCompleto

	out := make([]EstadoEtapa, 0, len(seq))
	pasada := false
	for _, e := range seq {
		unlocked := completo || !pasada
		out = append(out, EstadoEtapa{
			Codigo:       e.Codigo,
			Label:        e.Label,
			Progreso:     e.Progreso,
			Desbloqueada: unlocked,
		})
		if e.Codigo == actual.Codigo {
			pasada = true
		}
	}
	return out
}

// Desbloqueada reports whether a single stage may be edited right now.
func Desbloqueada(c *model.Compra, etapa Etapa) bool {
	for _, e := range Estados(c) {
		if e.Codigo == etapa {
			return e.Desbloqueada
		}
	}
	return false
}
