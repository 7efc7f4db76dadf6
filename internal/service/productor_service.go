package service

import (
	"context"

	"pagoscompras/internal/dto"
	"pagoscompras/internal/model"
	"pagoscompras/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductorService interface {
	Crear(ctx context.Context, req dto.CrearProductorRequest) (*dto.ProductorResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductorResponse, error)
	Listar(ctx context.Context, filter dto.ProductorFilter) ([]dto.ProductorResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductorRequest) (*dto.ProductorResponse, error)
	// Eliminar borra al productor si no tiene movimientos; si ya tiene
	// compras o anticipos registrados solo lo desactiva.
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type productorService struct {
	repo repository.ProductorRepository
}

func NewProductorService(repo repository.ProductorRepository) ProductorService {
	return &productorService{repo: repo}
}

func (s *productorService) Crear(ctx context.Context, req dto.CrearProductorRequest) (*dto.ProductorResponse, error) {
	if _, err := s.repo.FindByCodigo(ctx, req.Codigo); err == nil {
		return nil, validacion("ya existe un productor con ese codigo")
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	p := &model.Productor{
		Codigo:          req.Codigo,
		Nombre:          req.Nombre,
		RegimenFiscal:   req.RegimenFiscal,
		CuentaProductor: req.CuentaProductor,
		Telefono:        req.Telefono,
		CorreoFacturas:  req.CorreoFacturas,
		Notas:           req.Notas,
		Activo:          true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := productorToResponse(p)
	return &resp, nil
}

func (s *productorService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrado
	}
	resp := productorToResponse(p)
	return &resp, nil
}

func (s *productorService) Listar(ctx context.Context, filter dto.ProductorFilter) ([]dto.ProductorResponse, error) {
	productores, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductorResponse, len(productores))
	for i := range productores {
		resp[i] = productorToResponse(&productores[i])
	}
	return resp, nil
}

func (s *productorService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductorRequest) (*dto.ProductorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrado
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.RegimenFiscal != nil {
		p.RegimenFiscal = *req.RegimenFiscal
	}
	if req.CuentaProductor != nil {
		p.CuentaProductor = *req.CuentaProductor
	}
	if req.Telefono != nil {
		p.Telefono = *req.Telefono
	}
	if req.CorreoFacturas != nil {
		p.CorreoFacturas = *req.CorreoFacturas
	}
	if req.Notas != nil {
		p.Notas = *req.Notas
	}
	if req.Activo != nil {
		p.Activo = *req.Activo
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	resp := productorToResponse(p)
	return &resp, nil
}

func (s *productorService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrNoEncontrado
	}
	tiene, err := s.repo.TieneMovimientos(ctx, id)
	if err != nil {
		return err
	}
	if tiene {
		return s.repo.SetActivo(ctx, id, false)
	}
	return s.repo.Delete(ctx, id)
}

func productorToResponse(p *model.Productor) dto.ProductorResponse {
	return dto.ProductorResponse{
		ID:              p.ID.String(),
		Codigo:          p.Codigo,
		Nombre:          p.Nombre,
		RegimenFiscal:   p.RegimenFiscal,
		CuentaProductor: p.CuentaProductor,
		Telefono:        p.Telefono,
		CorreoFacturas:  p.CorreoFacturas,
		Activo:          p.Activo,
		Notas:           p.Notas,
	}
}
