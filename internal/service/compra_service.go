package service

import (
	"context"
	"time"

	"pagoscompras/internal/dto"
	"pagoscompras/internal/finanzas"
	"pagoscompras/internal/flujo"
	"pagoscompras/internal/infra"
	"pagoscompras/internal/model"
	"pagoscompras/internal/repository"
	"pagoscompras/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CompraService interface {
	Crear(ctx context.Context, req dto.CrearCompraRequest) (*dto.CompraResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error)
	Listar(ctx context.Context, filter dto.CompraFilter) (*dto.CompraListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCompraRequest) (*dto.CompraResponse, error)
	// ActualizarEtapa applies only the fields of the named stage, and only
	// when the workflow has unlocked that stage.
	ActualizarEtapa(ctx context.Context, id uuid.UUID, etapa flujo.Etapa, req dto.ActualizarEtapaRequest) (*dto.CompraResponse, error)
	CrearDivision(ctx context.Context, parentID uuid.UUID, req dto.CrearDivisionRequest) (*dto.CompraResponse, error)
	DivisionDisponible(ctx context.Context, id uuid.UUID) (*dto.DivisionDisponibleResponse, error)
	// SolicitarFactura encola la generacion de la hoja de solicitud en PDF
	// y marca la compra como solicitada.
	SolicitarFactura(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type compraService struct {
	repo          repository.CompraRepository
	productorRepo repository.ProductorRepository
	tcRepo        repository.TipoCambioRepository
	dispatcher    *worker.Dispatcher
}

func NewCompraService(
	repo repository.CompraRepository,
	productorRepo repository.ProductorRepository,
	tcRepo repository.TipoCambioRepository,
	dispatcher *worker.Dispatcher,
) CompraService {
	return &compraService{
		repo:          repo,
		productorRepo: productorRepo,
		tcRepo:        tcRepo,
		dispatcher:    dispatcher,
	}
}

func (s *compraService) Crear(ctx context.Context, req dto.CrearCompraRequest) (*dto.CompraResponse, error) {
	productorID, err := uuid.Parse(req.ProductorID)
	if err != nil {
		return nil, validacion("productor_id invalido")
	}
	productor, err := s.productorRepo.FindByID(ctx, productorID)
	if err != nil {
		return nil, validacion("productor no encontrado")
	}
	fechaLiq, err := time.Parse("2006-01-02", req.FechaLiq)
	if err != nil {
		return nil, validacion("fecha_liq invalida")
	}

	c := &model.Compra{
		NumeroCompra:    req.NumeroCompra,
		FechaLiq:        fechaLiq,
		ProductorID:     productorID,
		Productor:       productor,
		RegimenFiscal:   productor.RegimenFiscal,
		CuentaProductor: productor.CuentaProductor,
		Correo:          productor.CorreoFacturas,
		Pacas:           req.Pacas,
		CompraEnLibras:  req.CompraEnLibras,
		Intereses:       model.SiNoNo,
		Moneda:          model.MonedaDolares,
		EstatusFactura:  model.EstadoFacturaFacturado,
		EstatusDePago:   model.EstadoPagoPendiente,
	}
	if req.Moneda != "" {
		c.Moneda = req.Moneda
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		s.recalcular(ctx, c)
		return s.repo.Create(orDB(tx, s.repo.DB()), c)
	})
	if err != nil {
		return nil, err
	}
	return s.buildResponse(c)
}

func (s *compraService) Obtener(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrado
	}
	return s.buildResponse(c)
}

func (s *compraService) Listar(ctx context.Context, filter dto.CompraFilter) (*dto.CompraListResponse, error) {
	compras, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CompraListItem, len(compras))
	for i := range compras {
		c := &compras[i]
		aplicado, err := s.repo.TotalAplicado(s.repo.DB(), c.ID)
		if err != nil {
			return nil, err
		}
		actual := flujo.EtapaActual(c)
		item := dto.CompraListItem{
			ID:             c.ID.String(),
			NumeroCompra:   c.NumeroCompra,
			FechaLiq:       c.FechaLiq.Format("2006-01-02"),
			Pacas:          c.Pacas,
			CompraEnLibras: c.CompraEnLibras,
			Pago:           c.Pago,
			EstatusDePago:  c.EstatusDePago,
			EsDivision:     c.EsDivision(),
			Etapa:          string(actual.Codigo),
			EtapaLabel:     actual.Label,
			Progreso:       actual.Progreso,
			SaldoPorPagar:  finanzas.SaldoPorPagar(c, aplicado),
		}
		if c.Productor != nil {
			item.ProductorCodigo = c.Productor.Codigo
			item.ProductorNombre = c.Productor.Nombre
		}
		data[i] = item
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return &dto.CompraListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func (s *compraService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCompraRequest) (*dto.CompraResponse, error) {
	var resultado *dto.CompraResponse
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		db := orDB(tx, s.repo.DB())
		c, err := s.repo.FindByIDForUpdate(db, id)
		if err != nil {
			return ErrNoEncontrado
		}
		if err := s.aplicarCambios(ctx, c, req); err != nil {
			return err
		}
		s.recalcular(ctx, c)
		if err := s.repo.Update(db, c); err != nil {
			return err
		}
		resultado, err = s.buildResponse(c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resultado, nil
}

func (s *compraService) aplicarCambios(ctx context.Context, c *model.Compra, req dto.ActualizarCompraRequest) error {
	if req.NumeroCompra != nil {
		c.NumeroCompra = *req.NumeroCompra
	}
	if req.Intereses != nil {
		c.Intereses = *req.Intereses
	}
	if req.FechaDePago != nil {
		fecha, err := time.Parse("2006-01-02", *req.FechaDePago)
		if err != nil {
			return validacion("fecha_de_pago invalida")
		}
		c.FechaDePago = &fecha
	}
	if req.FechaLiq != nil {
		fecha, err := time.Parse("2006-01-02", *req.FechaLiq)
		if err != nil {
			return validacion("fecha_liq invalida")
		}
		c.FechaLiq = fecha
	}
	if req.UUIDFactura != nil {
		c.UUIDFactura = *req.UUIDFactura
	}
	if req.Factura != nil {
		c.Factura = *req.Factura
	}
	if req.Pacas != nil {
		c.Pacas = req.Pacas
	}
	if req.CompraEnLibras != nil {
		c.CompraEnLibras = req.CompraEnLibras
	}
	if req.Anticipo != nil {
		c.Anticipo = *req.Anticipo
	}
	if req.Pago != nil {
		c.Pago = req.Pago
	}
	if req.TipoCambioID != nil {
		if err := s.asignarTipoCambio(ctx, c, *req.TipoCambioID); err != nil {
			return err
		}
	}
	if req.RetencionDeudasUSD != nil {
		c.RetencionDeudasUSD = *req.RetencionDeudasUSD
	}
	if req.RetencionDeudasMXN != nil {
		c.RetencionDeudasMXN = *req.RetencionDeudasMXN
	}
	if req.RetencionResico != nil {
		c.RetencionResico = *req.RetencionResico
	}
	if req.SaldoPendiente != nil {
		c.SaldoPendiente = *req.SaldoPendiente
	}
	if req.EstatusFactura != nil {
		c.EstatusFactura = *req.EstatusFactura
	}
	if req.Vencimiento != nil {
		fecha, err := time.Parse("2006-01-02", *req.Vencimiento)
		if err != nil {
			return validacion("vencimiento invalido")
		}
		c.Vencimiento = &fecha
	}
	if req.CuentaDePago != nil {
		c.CuentaDePago = *req.CuentaDePago
	}
	if req.MetodoDePago != nil {
		c.MetodoDePago = *req.MetodoDePago
	}
	if req.Moneda != nil {
		c.Moneda = *req.Moneda
	}
	if req.CuentaProductor != nil {
		c.CuentaProductor = *req.CuentaProductor
	}
	if req.EstatusDePago != nil {
		c.EstatusDePago = *req.EstatusDePago
	}
	if req.Contador != nil {
		c.Contador = *req.Contador
	}
	if req.Correo != nil {
		c.Correo = *req.Correo
	}
	if req.EstatusRep != nil {
		c.EstatusRep = *req.EstatusRep
	}
	if req.UUIDPpd != nil {
		c.UUIDPpd = *req.UUIDPpd
	}
	if req.ExpedienteCompleto != nil {
		c.ExpedienteCompleto = *req.ExpedienteCompleto
	}
	return nil
}

func (s *compraService) ActualizarEtapa(ctx context.Context, id uuid.UUID, etapa flujo.Etapa, req dto.ActualizarEtapaRequest) (*dto.CompraResponse, error) {
	var resultado *dto.CompraResponse
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		db := orDB(tx, s.repo.DB())
		c, err := s.repo.FindByIDForUpdate(db, id)
		if err != nil {
			return ErrNoEncontrado
		}
		if !flujo.Desbloqueada(c, etapa) {
			return ErrConflicto
		}
		if err := s.aplicarEtapa(ctx, c, etapa, req); err != nil {
			return err
		}
		s.recalcular(ctx, c)
		if err := s.repo.Update(db, c); err != nil {
			return err
		}
		resultado, err = s.buildResponse(c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resultado, nil
}

// aplicarEtapa copies only the request fields that belong to the stage; the
// rest of the payload is ignored on purpose.
func (s *compraService) aplicarEtapa(ctx context.Context, c *model.Compra, etapa flujo.Etapa, req dto.ActualizarEtapaRequest) error {
	switch etapa {
	case flujo.EtapaCaptura:
		if req.NumeroCompra != nil {
			c.NumeroCompra = *req.NumeroCompra
		}
		if req.FechaLiq != nil {
			fecha, err := time.Parse("2006-01-02", *req.FechaLiq)
			if err != nil {
				return validacion("fecha_liq invalida")
			}
			c.FechaLiq = fecha
		}
		if req.ProductorID != nil {
			productorID, err := uuid.Parse(*req.ProductorID)
			if err != nil {
				return validacion("productor_id invalido")
			}
			productor, err := s.productorRepo.FindByID(ctx, productorID)
			if err != nil {
				return validacion("productor no encontrado")
			}
			c.ProductorID = productorID
			c.Productor = productor
			c.RegimenFiscal = productor.RegimenFiscal
		}
		if req.Pacas != nil {
			c.Pacas = req.Pacas
		}
		if req.CompraEnLibras != nil {
			c.CompraEnLibras = req.CompraEnLibras
		}

	case flujo.EtapaAnticipos:
		if req.Anticipo != nil {
			c.Anticipo = *req.Anticipo
		}
		if req.AnticiposRevisados != nil {
			c.AnticiposRevisados = *req.AnticiposRevisados
		}

	case flujo.EtapaDeudas:
		if req.TipoCambioID != nil {
			if err := s.asignarTipoCambio(ctx, c, *req.TipoCambioID); err != nil {
				return err
			}
		}
		if req.TipoCambioValor != nil {
			// captura manual del tipo de cambio: suelta la referencia
			c.TipoCambioID = nil
			c.TipoCambio = nil
			c.TipoCambioValor = req.TipoCambioValor
		}
		if req.RetencionDeudasUSD != nil {
			c.RetencionDeudasUSD = *req.RetencionDeudasUSD
		}
		if req.RetencionDeudasMXN != nil {
			c.RetencionDeudasMXN = *req.RetencionDeudasMXN
		}
		if req.DeudasRevisadas != nil {
			c.DeudasRevisadas = *req.DeudasRevisadas
		}

	case flujo.EtapaFacturas:
		if req.SolicitudFacturaEnviada != nil {
			c.SolicitudFacturaEnviada = *req.SolicitudFacturaEnviada
		}
		if req.FechaSolicitudFactura != nil {
			fecha, err := time.Parse("2006-01-02", *req.FechaSolicitudFactura)
			if err != nil {
				return validacion("fecha_solicitud_factura invalida")
			}
			c.FechaSolicitudFactura = &fecha
		}
		if req.Factura != nil {
			c.Factura = *req.Factura
		}
		if req.UUIDFactura != nil {
			c.UUIDFactura = *req.UUIDFactura
		}
		if req.Contador != nil {
			c.Contador = *req.Contador
		}
		if req.Correo != nil {
			c.Correo = *req.Correo
		}
		if req.EstatusFactura != nil {
			c.EstatusFactura = *req.EstatusFactura
		}

	case flujo.EtapaPago:
		if req.FechaDePago != nil {
			fecha, err := time.Parse("2006-01-02", *req.FechaDePago)
			if err != nil {
				return validacion("fecha_de_pago invalida")
			}
			c.FechaDePago = &fecha
		}
		if req.Pago != nil {
			c.Pago = req.Pago
		}
		if req.CuentaDePago != nil {
			c.CuentaDePago = *req.CuentaDePago
		}
		if req.MetodoDePago != nil {
			c.MetodoDePago = *req.MetodoDePago
		}
		if req.Moneda != nil {
			c.Moneda = *req.Moneda
		}
		if req.CuentaProductor != nil {
			c.CuentaProductor = *req.CuentaProductor
		}
		if req.EstatusDePago != nil {
			c.EstatusDePago = *req.EstatusDePago
		}

	default:
		return validacion("etapa sin campos editables")
	}
	return nil
}

func (s *compraService) CrearDivision(ctx context.Context, parentID uuid.UUID, req dto.CrearDivisionRequest) (*dto.CompraResponse, error) {
	if (req.Porcentaje == nil) == (req.Monto == nil) {
		return nil, validacion("capture porcentaje o monto, no ambos")
	}

	var resultado *dto.CompraResponse
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		db := orDB(tx, s.repo.DB())
		parent, err := s.repo.FindByIDForUpdate(db, parentID)
		if err != nil {
			return ErrNoEncontrado
		}
		if parent.EsDivision() {
			return validacion("una division no puede dividirse de nuevo")
		}

		var porcentaje decimal.Decimal
		if req.Porcentaje != nil {
			porcentaje = *req.Porcentaje
		} else {
			base := finanzas.BaseDivision(parent)
			if !base.IsPositive() {
				return validacion("la compra no tiene libras capturadas para dividir por monto")
			}
			porcentaje = finanzas.PorcentajeDesdeMonto(*req.Monto, base)
		}
		if !porcentaje.IsPositive() {
			return validacion("el porcentaje de division debe ser mayor que cero")
		}

		dividido, err := s.repo.TotalPorcentajeDividido(db, parentID)
		if err != nil {
			return err
		}
		if dividido.Add(porcentaje).GreaterThan(decimal.NewFromInt(100)) {
			return validacion("la division excede el porcentaje disponible de la compra")
		}

		child := s.armarDivision(parent, porcentaje, req)
		s.recalcular(ctx, child)
		if err := s.repo.Create(db, child); err != nil {
			return err
		}
		resultado, err = s.buildResponse(child)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resultado, nil
}

// armarDivision builds the child compra: identity and fiscal data come from
// the parent, quantities are prorated by the percentage, and the review
// stages arrive pre-approved because the parent already cleared them.
func (s *compraService) armarDivision(parent *model.Compra, porcentaje decimal.Decimal, req dto.CrearDivisionRequest) *model.Compra {
	pct := porcentaje.Round(2)
	child := &model.Compra{
		NumeroCompra:       parent.NumeroCompra,
		FechaLiq:           parent.FechaLiq,
		ProductorID:        parent.ProductorID,
		Productor:          parent.Productor,
		RegimenFiscal:      parent.RegimenFiscal,
		ParentCompraID:     &parent.ID,
		PorcentajeDivision: &pct,
		TipoCambioID:       parent.TipoCambioID,
		TipoCambio:         parent.TipoCambio,
		TipoCambioValor:    parent.TipoCambioValor,
		Intereses:          parent.Intereses,
		Moneda:             parent.Moneda,
		CuentaProductor:    parent.CuentaProductor,
		Correo:             parent.Correo,
		Contador:           parent.Contador,
		EstatusFactura:     model.EstadoFacturaPendiente,
		EstatusDePago:      model.EstadoPagoPendiente,
		Factura:            req.Factura,
		UUIDFactura:        req.UUIDFactura,
		AnticiposRevisados: true,
		DeudasRevisadas:    true,
		DivisionRevisada:   true,
	}
	if parent.Pacas != nil {
		v := finanzas.Prorratear(*parent.Pacas, porcentaje).Round(2)
		child.Pacas = &v
	}
	if parent.CompraEnLibras != nil {
		v := finanzas.Prorratear(*parent.CompraEnLibras, porcentaje).Round(4)
		child.CompraEnLibras = &v
	}
	// el pago de la division se captura por separado en su etapa de pago
	return child
}

func (s *compraService) DivisionDisponible(ctx context.Context, id uuid.UUID) (*dto.DivisionDisponibleResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrado
	}
	// una division no tiene nada que repartir
	if c.EsDivision() {
		return &dto.DivisionDisponibleResponse{
			PorcentajeDisponible: decimal.Zero,
			MontoDisponible:      decimal.Zero,
		}, nil
	}
	dividido, err := s.repo.TotalPorcentajeDividido(s.repo.DB(), id)
	if err != nil {
		return nil, err
	}
	disponible := decimal.NewFromInt(100).Sub(dividido)
	if disponible.IsNegative() {
		disponible = decimal.Zero
	}
	return &dto.DivisionDisponibleResponse{
		PorcentajeDisponible: disponible,
		MontoDisponible:      finanzas.MontoDesdePorcentaje(finanzas.BaseDivision(c), disponible).Round(4),
	}, nil
}

func (s *compraService) SolicitarFactura(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error) {
	var resultado *dto.CompraResponse
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		db := orDB(tx, s.repo.DB())
		c, err := s.repo.FindByIDForUpdate(db, id)
		if err != nil {
			return ErrNoEncontrado
		}
		if !flujo.Desbloqueada(c, flujo.EtapaFacturas) {
			return ErrConflicto
		}
		hoy := time.Now().Truncate(24 * time.Hour)
		c.SolicitudFacturaEnviada = true
		c.FechaSolicitudFactura = &hoy
		s.recalcular(ctx, c)
		if err := s.repo.Update(db, c); err != nil {
			return err
		}
		resultado, err = s.buildResponse(c)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		payload := worker.SolicitudJobPayload{CompraID: id.String()}
		if err := s.dispatcher.EnqueueSolicitud(ctx, payload); err != nil {
			log.Warn().Err(err).Str("compra_id", id.String()).Msg("compras: no se pudo encolar la solicitud de factura")
		}
	}
	return resultado, nil
}

func (s *compraService) Eliminar(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNoEncontrado
	}
	if len(c.Divisiones) > 0 {
		return validacion("la compra tiene divisiones; eliminelas primero")
	}
	if len(c.Aplicaciones) > 0 {
		return validacion("la compra tiene anticipos aplicados")
	}
	return s.repo.Delete(ctx, id)
}

// ── helpers ──────────────────────────────────────────────────────────────────

// recalcular resolves the compra's exchange rate and refreshes the derived
// fields. An explicit reference is re-resolved by ID when it was not
// preloaded; the day's rate only applies to compras that carry neither a
// reference nor a manually captured value. Missing rate rows are not an
// error: the compra simply keeps its explicit values.
func (s *compraService) recalcular(ctx context.Context, c *model.Compra) {
	if c.TipoCambio == nil && c.TipoCambioID != nil {
		if tc, err := s.tcRepo.FindByID(ctx, *c.TipoCambioID); err == nil {
			c.TipoCambio = tc
		}
	}
	var tcDelDia *model.TipoCambio
	if c.TipoCambio == nil && c.TipoCambioValor == nil && !c.FechaLiq.IsZero() {
		if tc, err := s.tcRepo.FindByFecha(ctx, c.FechaLiq); err == nil {
			tcDelDia = tc
		}
	}
	finanzas.Recalcular(c, tcDelDia)
}

func (s *compraService) asignarTipoCambio(ctx context.Context, c *model.Compra, rawID string) error {
	tcID, err := uuid.Parse(rawID)
	if err != nil {
		return validacion("tipo_cambio_id invalido")
	}
	tc, err := s.tcRepo.FindByID(ctx, tcID)
	if err != nil {
		return validacion("tipo de cambio no encontrado")
	}
	c.TipoCambioID = &tc.ID
	c.TipoCambio = tc
	return nil
}

func (s *compraService) buildResponse(c *model.Compra) (*dto.CompraResponse, error) {
	aplicado, err := s.repo.TotalAplicado(s.repo.DB(), c.ID)
	if err != nil {
		return nil, err
	}
	saldo := finanzas.SaldoPorPagar(c, aplicado)
	actual := flujo.EtapaActual(c)

	estados := flujo.Estados(c)
	etapas := make([]dto.EtapaResponse, len(estados))
	for i, e := range estados {
		etapas[i] = dto.EtapaResponse{
			Codigo:       string(e.Codigo),
			Label:        e.Label,
			Progreso:     e.Progreso,
			Desbloqueada: e.Desbloqueada,
		}
	}

	resp := &dto.CompraResponse{
		ID:                 c.ID.String(),
		NumeroCompra:       c.NumeroCompra,
		FechaLiq:           c.FechaLiq.Format("2006-01-02"),
		ProductorID:        c.ProductorID.String(),
		RegimenFiscal:      c.RegimenFiscal,
		PorcentajeDivision: c.PorcentajeDivision,
		UUIDFactura:        c.UUIDFactura,
		Factura:            c.Factura,
		Pacas:              c.Pacas,
		CompraEnLibras:     c.CompraEnLibras,
		Pago:               c.Pago,
		DiasTranscurridos:  c.DiasTranscurridos,
		TipoCambioValor:    c.TipoCambioValor,
		RetencionDeudasUSD: c.RetencionDeudasUSD,
		RetencionDeudasMXN: c.RetencionDeudasMXN,
		TotalDeudaEnDls:    c.TotalDeudaEnDls,
		Moneda:             c.Moneda,
		TotalEnPesos:       c.TotalEnPesos,
		EstatusDePago:      c.EstatusDePago,
		SaldoPorPagar:      saldo,
		SaldoPorPagarFmt:   infra.FormatMonto(saldo),
		Flujo: dto.FlujoResponse{
			Etapa:    string(actual.Codigo),
			Label:    actual.Label,
			Progreso: actual.Progreso,
			Etapas:   etapas,
		},
	}
	if c.FechaDePago != nil {
		fecha := c.FechaDePago.Format("2006-01-02")
		resp.FechaDePago = &fecha
	}
	if c.ParentCompraID != nil {
		parent := c.ParentCompraID.String()
		resp.ParentCompraID = &parent
	}
	if c.Productor != nil {
		resp.ProductorCodigo = c.Productor.Codigo
		resp.ProductorNombre = c.Productor.Nombre
	}
	return resp, nil
}
