package service

import (
	"context"
	"time"

	"pagoscompras/internal/dto"
	"pagoscompras/internal/finanzas"
	"pagoscompras/internal/model"
	"pagoscompras/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AnticipoService interface {
	Crear(ctx context.Context, req dto.CrearAnticipoRequest) (*dto.AnticipoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.AnticipoResponse, error)
	Listar(ctx context.Context, filter dto.AnticipoFilter) (*dto.AnticipoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarAnticipoRequest) (*dto.AnticipoResponse, error)
	// Eliminar rechaza anticipos que ya tienen aplicaciones.
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type anticipoService struct {
	repo          repository.AnticipoRepository
	productorRepo repository.ProductorRepository
}

func NewAnticipoService(repo repository.AnticipoRepository, productorRepo repository.ProductorRepository) AnticipoService {
	return &anticipoService{repo: repo, productorRepo: productorRepo}
}

func (s *anticipoService) Crear(ctx context.Context, req dto.CrearAnticipoRequest) (*dto.AnticipoResponse, error) {
	productorID, err := uuid.Parse(req.ProductorID)
	if err != nil {
		return nil, validacion("productor_id invalido")
	}
	productor, err := s.productorRepo.FindByID(ctx, productorID)
	if err != nil {
		return nil, validacion("productor no encontrado")
	}
	fechaPago, err := time.Parse("2006-01-02", req.FechaPago)
	if err != nil {
		return nil, validacion("fecha_pago invalida")
	}

	a := &model.Anticipo{
		FechaPago:          fechaPago,
		ProductorID:        productorID,
		PersonaQueFactura:  req.PersonaQueFactura,
		Factura:            req.Factura,
		MontoAnticipo:      req.MontoAnticipo,
		Moneda:             model.MonedaDolares,
		PendienteAplicar:   model.PendienteAplicarPendiente,
		Estado:             model.EstadoFacturaFacturado,
		UUIDNotaCredito:    req.UUIDNotaCredito,
		TotalEnPesos:       req.TotalEnPesos,
		CuentaDePago:       req.CuentaDePago,
		Cuenta:             req.Cuenta,
		Contador:           req.Contador,
		CorreoParaFacturas: req.CorreoParaFacturas,
		Telefono:           req.Telefono,
		Observaciones:      req.Observaciones,
	}
	if req.Moneda != "" {
		a.Moneda = req.Moneda
	}
	if req.Estado != "" {
		a.Estado = req.Estado
	}
	// datos de contacto heredados del productor cuando no se capturan
	if a.CorreoParaFacturas == "" {
		a.CorreoParaFacturas = productor.CorreoFacturas
	}
	if a.Telefono == "" {
		a.Telefono = productor.Telefono
	}

	// El folio consecutivo se asigna dentro de la transaccion para que dos
	// capturas simultaneas no compartan numero.
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumero(orDB(tx, s.repo.DB()))
		if err != nil {
			return err
		}
		a.NumeroAnticipo = &numero
		return s.repo.Create(orDB(tx, s.repo.DB()), a)
	})
	if err != nil {
		return nil, err
	}

	resp := s.toResponse(a, productor, nil)
	return &resp, nil
}

func (s *anticipoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.AnticipoResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrado
	}
	aplicado, err := s.repo.TotalAplicado(s.repo.DB(), id)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(a, a.Productor, &aplicado)
	return &resp, nil
}

func (s *anticipoService) Listar(ctx context.Context, filter dto.AnticipoFilter) (*dto.AnticipoListResponse, error) {
	anticipos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.AnticipoResponse, len(anticipos))
	for i := range anticipos {
		aplicado, err := s.repo.TotalAplicado(s.repo.DB(), anticipos[i].ID)
		if err != nil {
			return nil, err
		}
		data[i] = s.toResponse(&anticipos[i], anticipos[i].Productor, &aplicado)
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return &dto.AnticipoListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func (s *anticipoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarAnticipoRequest) (*dto.AnticipoResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrado
	}

	if req.FechaPago != nil {
		fecha, err := time.Parse("2006-01-02", *req.FechaPago)
		if err != nil {
			return nil, validacion("fecha_pago invalida")
		}
		a.FechaPago = fecha
	}
	if req.PersonaQueFactura != nil {
		a.PersonaQueFactura = *req.PersonaQueFactura
	}
	if req.Factura != nil {
		a.Factura = *req.Factura
	}
	if req.MontoAnticipo != nil {
		a.MontoAnticipo = *req.MontoAnticipo
	}
	if req.Moneda != nil {
		a.Moneda = *req.Moneda
	}
	if req.Estado != nil {
		a.Estado = *req.Estado
	}
	if req.UUIDNotaCredito != nil {
		a.UUIDNotaCredito = *req.UUIDNotaCredito
	}
	if req.TotalEnPesos != nil {
		a.TotalEnPesos = req.TotalEnPesos
	}
	if req.CuentaDePago != nil {
		a.CuentaDePago = *req.CuentaDePago
	}
	if req.Cuenta != nil {
		a.Cuenta = *req.Cuenta
	}
	if req.Contador != nil {
		a.Contador = *req.Contador
	}
	if req.CorreoParaFacturas != nil {
		a.CorreoParaFacturas = *req.CorreoParaFacturas
	}
	if req.Telefono != nil {
		a.Telefono = *req.Telefono
	}
	if req.Observaciones != nil {
		a.Observaciones = *req.Observaciones
	}

	var aplicado *dto.AnticipoResponse
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		db := orDB(tx, s.repo.DB())
		totalAplicado, err := s.repo.TotalAplicado(db, id)
		if err != nil {
			return err
		}
		// un cambio de monto puede revertir o completar el estado derivado
		finanzas.ActualizarPendiente(a, totalAplicado)
		if err := s.repo.Update(db, a); err != nil {
			return err
		}
		resp := s.toResponse(a, a.Productor, &totalAplicado)
		aplicado = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return aplicado, nil
}

func (s *anticipoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNoEncontrado
	}
	if len(a.Aplicaciones) > 0 {
		return validacion("el anticipo ya tiene aplicaciones registradas")
	}
	return s.repo.Delete(ctx, id)
}

func (s *anticipoService) toResponse(a *model.Anticipo, p *model.Productor, totalAplicado *decimal.Decimal) dto.AnticipoResponse {
	resp := dto.AnticipoResponse{
		ID:               a.ID.String(),
		NumeroAnticipo:   a.NumeroAnticipo,
		FechaPago:        a.FechaPago.Format("2006-01-02"),
		ProductorID:      a.ProductorID.String(),
		MontoAnticipo:    a.MontoAnticipo,
		Moneda:           a.Moneda,
		PendienteAplicar: a.PendienteAplicar,
		Estado:           a.Estado,
		Factura:          a.Factura,
		Observaciones:    a.Observaciones,
	}
	if p != nil {
		resp.ProductorCodigo = p.Codigo
		resp.ProductorNombre = p.Nombre
	}
	if totalAplicado != nil {
		resp.MontoAplicado = *totalAplicado
		resp.SaldoDisponible = finanzas.SaldoDisponible(a, *totalAplicado)
	} else {
		resp.SaldoDisponible = a.MontoAnticipo
	}
	return resp
}
