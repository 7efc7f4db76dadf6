package service

import (
	"context"

	"pagoscompras/internal/dto"
	"pagoscompras/internal/infra"
	"pagoscompras/internal/repository"

	"gorm.io/gorm"
)

// DashboardService arma los agregados de la pantalla inicial.
type DashboardService interface {
	Resumen(ctx context.Context) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	productorRepo repository.ProductorRepository
	anticipoRepo  repository.AnticipoRepository
	compraRepo    repository.CompraRepository
	tcRepo        repository.TipoCambioRepository
}

func NewDashboardService(
	productorRepo repository.ProductorRepository,
	anticipoRepo repository.AnticipoRepository,
	compraRepo repository.CompraRepository,
	tcRepo repository.TipoCambioRepository,
) DashboardService {
	return &dashboardService{
		productorRepo: productorRepo,
		anticipoRepo:  anticipoRepo,
		compraRepo:    compraRepo,
		tcRepo:        tcRepo,
	}
}

func (s *dashboardService) Resumen(ctx context.Context) (*dto.DashboardResponse, error) {
	productores, err := s.productorRepo.CountActivos(ctx)
	if err != nil {
		return nil, err
	}
	anticiposTotal, anticiposCount, err := s.anticipoRepo.SumaMontos(ctx)
	if err != nil {
		return nil, err
	}
	librasTotal, comprasCount, err := s.compraRepo.SumaLibras(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		ProductoresActivos: productores,
		AnticiposTotal:     anticiposTotal,
		AnticiposTotalFmt:  infra.FormatMonto(anticiposTotal),
		AnticiposCount:     anticiposCount,
		ComprasTotalLibras: librasTotal,
		ComprasTotalFmt:    infra.FormatCantidad(librasTotal),
		ComprasCount:       comprasCount,
	}

	ultimo, err := s.tcRepo.Ultimo(ctx)
	switch {
	case err == nil:
		tc := tipoCambioToResponse(ultimo)
		resp.TipoCambioUltimo = &tc
	case err == gorm.ErrRecordNotFound:
		// sin registros todavia
	default:
		return nil, err
	}
	return resp, nil
}
