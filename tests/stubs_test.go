package tests

import (
	"context"
	"errors"
	"sort"
	"time"

	"pagoscompras/internal/dto"
	"pagoscompras/internal/model"
	"pagoscompras/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory datastore shared by the repo stubs ─────────────────────────────

// memoria emulates the database for unit tests: the stub repos all read and
// write the same maps, so cross-aggregate sums (aplicaciones over anticipos
// and compras) behave like real queries. Transactions are a no-op: the
// services run with a nil *gorm.DB and the stubs ignore the tx handle.
type memoria struct {
	productores  map[uuid.UUID]*model.Productor
	anticipos    map[uuid.UUID]*model.Anticipo
	compras      map[uuid.UUID]*model.Compra
	aplicaciones map[uuid.UUID]*model.AplicacionAnticipo
	tiposCambio  map[uuid.UUID]*model.TipoCambio
	numeroSeq    int
}

func nuevaMemoria() *memoria {
	return &memoria{
		productores:  make(map[uuid.UUID]*model.Productor),
		anticipos:    make(map[uuid.UUID]*model.Anticipo),
		compras:      make(map[uuid.UUID]*model.Compra),
		aplicaciones: make(map[uuid.UUID]*model.AplicacionAnticipo),
		tiposCambio:  make(map[uuid.UUID]*model.TipoCambio),
	}
}

func (m *memoria) totalAplicadoAnticipo(id uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, a := range m.aplicaciones {
		if a.AnticipoID == id {
			total = total.Add(a.MontoAplicado)
		}
	}
	return total
}

func (m *memoria) totalAplicadoCompra(id uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, a := range m.aplicaciones {
		if a.CompraID == id {
			total = total.Add(a.MontoAplicado)
		}
	}
	return total
}

// ── Seed helpers ─────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func fecha(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func seedProductor(m *memoria, codigo, nombre string) *model.Productor {
	p := &model.Productor{
		ID:              uuid.New(),
		Codigo:          codigo,
		Nombre:          nombre,
		RegimenFiscal:   "601 General de Ley",
		CuentaProductor: "0123456789",
		Telefono:        "656-555-0100",
		CorreoFacturas:  codigo + "@productores.mx",
		Activo:          true,
	}
	m.productores[p.ID] = p
	return p
}

func seedAnticipo(m *memoria, p *model.Productor, monto string) *model.Anticipo {
	m.numeroSeq++
	numero := m.numeroSeq
	a := &model.Anticipo{
		ID:               uuid.New(),
		NumeroAnticipo:   &numero,
		FechaPago:        fecha("2025-02-01"),
		ProductorID:      p.ID,
		Productor:        p,
		MontoAnticipo:    dec(monto),
		Moneda:           model.MonedaDolares,
		PendienteAplicar: model.PendienteAplicarPendiente,
		Estado:           model.EstadoFacturaFacturado,
	}
	m.anticipos[a.ID] = a
	return a
}

// seedCompra captures a compra with its payment amount already registered so
// the saldo math has a base to work against.
func seedCompra(m *memoria, p *model.Productor, numero int, pago string) *model.Compra {
	c := &model.Compra{
		ID:             uuid.New(),
		NumeroCompra:   numero,
		FechaLiq:       fecha("2025-03-10"),
		ProductorID:    p.ID,
		Productor:      p,
		Pacas:          decPtr("100"),
		CompraEnLibras: decPtr("50000"),
		Pago:           decPtr(pago),
		Intereses:      model.SiNoNo,
		Moneda:         model.MonedaDolares,
		EstatusFactura: model.EstadoFacturaFacturado,
		EstatusDePago:  model.EstadoPagoPendiente,
	}
	m.compras[c.ID] = c
	return c
}

func seedTipoCambio(m *memoria, dia string, tc string) *model.TipoCambio {
	row := &model.TipoCambio{
		ID:     uuid.New(),
		Fecha:  fecha(dia),
		TC:     dec(tc),
		Fuente: "Diario Oficial de la Federacion",
	}
	m.tiposCambio[row.ID] = row
	return row
}

// ── Productor repo stub ──────────────────────────────────────────────────────

type stubProductorRepo struct{ m *memoria }

func (r *stubProductorRepo) Create(_ context.Context, p *model.Productor) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.m.productores[p.ID] = p
	return nil
}

func (r *stubProductorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Productor, error) {
	p, ok := r.m.productores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductorRepo) FindByCodigo(_ context.Context, codigo string) (*model.Productor, error) {
	for _, p := range r.m.productores {
		if p.Codigo == codigo {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductorRepo) List(_ context.Context, filter dto.ProductorFilter) ([]model.Productor, error) {
	out := make([]model.Productor, 0, len(r.m.productores))
	for _, p := range r.m.productores {
		if !filter.IncluirInactivos && !p.Activo {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, nil
}

func (r *stubProductorRepo) Update(_ context.Context, p *model.Productor) error {
	r.m.productores[p.ID] = p
	return nil
}

func (r *stubProductorRepo) SetActivo(_ context.Context, id uuid.UUID, activo bool) error {
	p, ok := r.m.productores[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = activo
	return nil
}

func (r *stubProductorRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.m.productores, id)
	return nil
}

func (r *stubProductorRepo) TieneMovimientos(_ context.Context, id uuid.UUID) (bool, error) {
	for _, c := range r.m.compras {
		if c.ProductorID == id {
			return true, nil
		}
	}
	for _, a := range r.m.anticipos {
		if a.ProductorID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProductorRepo) CountActivos(_ context.Context) (int64, error) {
	var n int64
	for _, p := range r.m.productores {
		if p.Activo {
			n++
		}
	}
	return n, nil
}

var _ repository.ProductorRepository = (*stubProductorRepo)(nil)

// ── TipoCambio repo stub ─────────────────────────────────────────────────────

type stubTipoCambioRepo struct{ m *memoria }

func (r *stubTipoCambioRepo) Create(_ context.Context, tc *model.TipoCambio) error {
	if tc.ID == uuid.Nil {
		tc.ID = uuid.New()
	}
	r.m.tiposCambio[tc.ID] = tc
	return nil
}

func (r *stubTipoCambioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.TipoCambio, error) {
	tc, ok := r.m.tiposCambio[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return tc, nil
}

func (r *stubTipoCambioRepo) FindByFecha(_ context.Context, f time.Time) (*model.TipoCambio, error) {
	for _, tc := range r.m.tiposCambio {
		if tc.Fecha.Equal(f) {
			return tc, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTipoCambioRepo) UltimoHasta(_ context.Context, f time.Time) (*model.TipoCambio, error) {
	var mejor *model.TipoCambio
	for _, tc := range r.m.tiposCambio {
		if tc.Fecha.After(f) {
			continue
		}
		if mejor == nil || tc.Fecha.After(mejor.Fecha) {
			mejor = tc
		}
	}
	if mejor == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return mejor, nil
}

func (r *stubTipoCambioRepo) Ultimo(_ context.Context) (*model.TipoCambio, error) {
	return r.UltimoHasta(context.Background(), fecha("9999-12-31"))
}

func (r *stubTipoCambioRepo) List(_ context.Context, _ dto.TipoCambioFilter) ([]model.TipoCambio, error) {
	out := make([]model.TipoCambio, 0, len(r.m.tiposCambio))
	for _, tc := range r.m.tiposCambio {
		out = append(out, *tc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha.After(out[j].Fecha) })
	return out, nil
}

func (r *stubTipoCambioRepo) Update(_ context.Context, tc *model.TipoCambio) error {
	r.m.tiposCambio[tc.ID] = tc
	return nil
}

func (r *stubTipoCambioRepo) UpsertPorFecha(_ *gorm.DB, tc *model.TipoCambio) (bool, error) {
	for _, existente := range r.m.tiposCambio {
		if existente.Fecha.Equal(tc.Fecha) {
			existente.TC = tc.TC
			existente.Fuente = tc.Fuente
			return true, nil
		}
	}
	if tc.ID == uuid.Nil {
		tc.ID = uuid.New()
	}
	r.m.tiposCambio[tc.ID] = tc
	return false, nil
}

func (r *stubTipoCambioRepo) DB() *gorm.DB { return nil }

var _ repository.TipoCambioRepository = (*stubTipoCambioRepo)(nil)

// ── Anticipo repo stub ───────────────────────────────────────────────────────

type stubAnticipoRepo struct{ m *memoria }

func (r *stubAnticipoRepo) Create(_ *gorm.DB, a *model.Anticipo) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.m.anticipos[a.ID] = a
	return nil
}

func (r *stubAnticipoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Anticipo, error) {
	a, ok := r.m.anticipos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *a
	copia.Productor = r.m.productores[a.ProductorID]
	copia.Aplicaciones = nil
	for _, ap := range r.m.aplicaciones {
		if ap.AnticipoID == id {
			copia.Aplicaciones = append(copia.Aplicaciones, *ap)
		}
	}
	return &copia, nil
}

// FindByIDForUpdate devuelve una copia: igual que con la base real, los
// cambios no se ven hasta Update.
func (r *stubAnticipoRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Anticipo, error) {
	a, ok := r.m.anticipos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *a
	return &copia, nil
}

func (r *stubAnticipoRepo) List(_ context.Context, filter dto.AnticipoFilter) ([]model.Anticipo, int64, error) {
	out := make([]model.Anticipo, 0, len(r.m.anticipos))
	for _, a := range r.m.anticipos {
		if filter.ProductorID != "" && a.ProductorID.String() != filter.ProductorID {
			continue
		}
		if filter.PendienteAplicar != "" && a.PendienteAplicar != filter.PendienteAplicar {
			continue
		}
		a.Productor = r.m.productores[a.ProductorID]
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FechaPago.After(out[j].FechaPago) })
	return out, int64(len(out)), nil
}

func (r *stubAnticipoRepo) Update(_ *gorm.DB, a *model.Anticipo) error {
	r.m.anticipos[a.ID] = a
	return nil
}

func (r *stubAnticipoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.m.anticipos, id)
	return nil
}

func (r *stubAnticipoRepo) NextNumero(_ *gorm.DB) (int, error) {
	r.m.numeroSeq++
	return r.m.numeroSeq, nil
}

func (r *stubAnticipoRepo) TotalAplicado(_ *gorm.DB, anticipoID uuid.UUID) (decimal.Decimal, error) {
	return r.m.totalAplicadoAnticipo(anticipoID), nil
}

func (r *stubAnticipoRepo) SumaMontos(_ context.Context) (decimal.Decimal, int64, error) {
	total := decimal.Zero
	for _, a := range r.m.anticipos {
		total = total.Add(a.MontoAnticipo)
	}
	return total, int64(len(r.m.anticipos)), nil
}

func (r *stubAnticipoRepo) DB() *gorm.DB { return nil }

var _ repository.AnticipoRepository = (*stubAnticipoRepo)(nil)

// ── Compra repo stub ─────────────────────────────────────────────────────────

type stubCompraRepo struct{ m *memoria }

func (r *stubCompraRepo) Create(_ *gorm.DB, c *model.Compra) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.m.compras[c.ID] = c
	return nil
}

func (r *stubCompraRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Compra, error) {
	c, ok := r.m.compras[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *c
	copia.Productor = r.m.productores[c.ProductorID]
	copia.Divisiones = nil
	for _, hijo := range r.m.compras {
		if hijo.ParentCompraID != nil && *hijo.ParentCompraID == id {
			copia.Divisiones = append(copia.Divisiones, *hijo)
		}
	}
	copia.Aplicaciones = nil
	for _, ap := range r.m.aplicaciones {
		if ap.CompraID == id {
			copia.Aplicaciones = append(copia.Aplicaciones, *ap)
		}
	}
	return &copia, nil
}

func (r *stubCompraRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Compra, error) {
	c, ok := r.m.compras[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *c
	copia.Productor = r.m.productores[c.ProductorID]
	return &copia, nil
}

func (r *stubCompraRepo) List(_ context.Context, filter dto.CompraFilter) ([]model.Compra, int64, error) {
	out := make([]model.Compra, 0, len(r.m.compras))
	for _, c := range r.m.compras {
		if filter.ProductorID != "" && c.ProductorID.String() != filter.ProductorID {
			continue
		}
		if filter.EstatusDePago != "" && c.EstatusDePago != filter.EstatusDePago {
			continue
		}
		c.Productor = r.m.productores[c.ProductorID]
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NumeroCompra < out[j].NumeroCompra })
	return out, int64(len(out)), nil
}

func (r *stubCompraRepo) Update(_ *gorm.DB, c *model.Compra) error {
	r.m.compras[c.ID] = c
	return nil
}

func (r *stubCompraRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.m.compras, id)
	return nil
}

func (r *stubCompraRepo) TotalAplicado(_ *gorm.DB, compraID uuid.UUID) (decimal.Decimal, error) {
	return r.m.totalAplicadoCompra(compraID), nil
}

func (r *stubCompraRepo) TotalPorcentajeDividido(_ *gorm.DB, parentID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, c := range r.m.compras {
		if c.ParentCompraID != nil && *c.ParentCompraID == parentID && c.PorcentajeDivision != nil {
			total = total.Add(*c.PorcentajeDivision)
		}
	}
	return total, nil
}

func (r *stubCompraRepo) ListDivisiones(_ context.Context, parentID uuid.UUID) ([]model.Compra, error) {
	out := []model.Compra{}
	for _, c := range r.m.compras {
		if c.ParentCompraID != nil && *c.ParentCompraID == parentID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCompraRepo) SumaLibras(_ context.Context) (decimal.Decimal, int64, error) {
	total := decimal.Zero
	for _, c := range r.m.compras {
		if c.CompraEnLibras != nil {
			total = total.Add(*c.CompraEnLibras)
		}
	}
	return total, int64(len(r.m.compras)), nil
}

func (r *stubCompraRepo) DB() *gorm.DB { return nil }

var _ repository.CompraRepository = (*stubCompraRepo)(nil)

// ── Aplicacion repo stub ─────────────────────────────────────────────────────

type stubAplicacionRepo struct{ m *memoria }

func (r *stubAplicacionRepo) Create(_ *gorm.DB, a *model.AplicacionAnticipo) error {
	for _, existente := range r.m.aplicaciones {
		if existente.AnticipoID == a.AnticipoID &&
			existente.CompraID == a.CompraID &&
			existente.Fecha.Equal(a.Fecha) {
			// mismo mensaje que el driver de postgres ante el indice unico
			return errors.New(`duplicate key value violates unique constraint "idx_aplicacion_triple"`)
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.m.aplicaciones[a.ID] = a
	return nil
}

func (r *stubAplicacionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.AplicacionAnticipo, error) {
	a, ok := r.m.aplicaciones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *a
	copia.Anticipo = r.m.anticipos[a.AnticipoID]
	copia.Compra = r.m.compras[a.CompraID]
	return &copia, nil
}

func (r *stubAplicacionRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.AplicacionAnticipo, error) {
	a, ok := r.m.aplicaciones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *a
	return &copia, nil
}

func (r *stubAplicacionRepo) ExistsTriple(_ *gorm.DB, anticipoID, compraID uuid.UUID, f time.Time, excluirID *uuid.UUID) (bool, error) {
	for _, a := range r.m.aplicaciones {
		if excluirID != nil && a.ID == *excluirID {
			continue
		}
		if a.AnticipoID == anticipoID && a.CompraID == compraID && a.Fecha.Equal(f) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubAplicacionRepo) ListPorCompra(_ context.Context, compraID uuid.UUID) ([]model.AplicacionAnticipo, error) {
	out := []model.AplicacionAnticipo{}
	for _, a := range r.m.aplicaciones {
		if a.CompraID == compraID {
			a.Anticipo = r.m.anticipos[a.AnticipoID]
			a.Compra = r.m.compras[a.CompraID]
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubAplicacionRepo) ListPorAnticipo(_ context.Context, anticipoID uuid.UUID) ([]model.AplicacionAnticipo, error) {
	out := []model.AplicacionAnticipo{}
	for _, a := range r.m.aplicaciones {
		if a.AnticipoID == anticipoID {
			a.Anticipo = r.m.anticipos[a.AnticipoID]
			a.Compra = r.m.compras[a.CompraID]
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubAplicacionRepo) Update(_ *gorm.DB, a *model.AplicacionAnticipo) error {
	r.m.aplicaciones[a.ID] = a
	return nil
}

func (r *stubAplicacionRepo) Delete(_ *gorm.DB, id uuid.UUID) error {
	delete(r.m.aplicaciones, id)
	return nil
}

func (r *stubAplicacionRepo) DB() *gorm.DB { return nil }

var _ repository.AplicacionRepository = (*stubAplicacionRepo)(nil)
