package service

import (
	"context"
	"strings"
	"time"

	"pagoscompras/internal/dto"
	"pagoscompras/internal/finanzas"
	"pagoscompras/internal/model"
	"pagoscompras/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AplicacionService interface {
	// Aplicar valida y registra una aplicacion de anticipo sobre una
	// compra. Toda la validacion y la escritura ocurren bajo candados de
	// fila, asi que dos aplicaciones simultaneas sobre el mismo anticipo
	// se serializan y la segunda ve el saldo ya descontado.
	Aplicar(ctx context.Context, req dto.AplicarAnticipoRequest) (*dto.AplicacionResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.AplicacionResponse, error)
	ListarPorCompra(ctx context.Context, compraID uuid.UUID) ([]dto.AplicacionResponse, error)
	ListarPorAnticipo(ctx context.Context, anticipoID uuid.UUID) ([]dto.AplicacionResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarAplicacionRequest) (*dto.AplicacionResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type aplicacionService struct {
	repo         repository.AplicacionRepository
	anticipoRepo repository.AnticipoRepository
	compraRepo   repository.CompraRepository
}

func NewAplicacionService(
	repo repository.AplicacionRepository,
	anticipoRepo repository.AnticipoRepository,
	compraRepo repository.CompraRepository,
) AplicacionService {
	return &aplicacionService{repo: repo, anticipoRepo: anticipoRepo, compraRepo: compraRepo}
}

func (s *aplicacionService) Aplicar(ctx context.Context, req dto.AplicarAnticipoRequest) (*dto.AplicacionResponse, error) {
	anticipoID, err := uuid.Parse(req.AnticipoID)
	if err != nil {
		return nil, validacion("anticipo_id invalido")
	}
	compraID, err := uuid.Parse(req.CompraID)
	if err != nil {
		return nil, validacion("compra_id invalido")
	}
	fecha, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		return nil, validacion("fecha invalida")
	}

	var resultado *dto.AplicacionResponse
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		db := orDB(tx, s.repo.DB())

		anticipo, err := s.anticipoRepo.FindByIDForUpdate(orDB(tx, s.anticipoRepo.DB()), anticipoID)
		if err != nil {
			return validacion("anticipo no encontrado")
		}
		compra, err := s.compraRepo.FindByIDForUpdate(orDB(tx, s.compraRepo.DB()), compraID)
		if err != nil {
			return validacion("compra no encontrada")
		}

		aplicacion := &model.AplicacionAnticipo{
			AnticipoID:    anticipoID,
			CompraID:      compraID,
			Fecha:         fecha,
			MontoAplicado: req.MontoAplicado,
		}
		if err := s.validar(db, tx, anticipo, compra, aplicacion, decimal.Zero, nil); err != nil {
			return err
		}

		if err := s.repo.Create(db, aplicacion); err != nil {
			if esDuplicado(err) {
				return ErrConflicto
			}
			return err
		}
		resultado, err = s.cerrar(tx, anticipo, compra, aplicacion)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}
	return resultado, nil
}

// validar runs the business checks in a fixed order so the caller always gets
// the most fundamental failure first. montoPrevio is the amount the row being
// edited already contributed (zero on create): it frees up the corresponding
// headroom on both balances.
func (s *aplicacionService) validar(
	db, tx *gorm.DB,
	anticipo *model.Anticipo,
	compra *model.Compra,
	aplicacion *model.AplicacionAnticipo,
	montoPrevio decimal.Decimal,
	excluirID *uuid.UUID,
) error {
	// 1. mismo productor
	if anticipo.ProductorID != compra.ProductorID {
		return validacion("el anticipo y la compra pertenecen a productores distintos")
	}

	// 2. monto positivo
	if !aplicacion.MontoAplicado.IsPositive() {
		return validacion("el monto aplicado debe ser mayor que cero")
	}

	// 3. no exceder el saldo disponible del anticipo
	totalAnticipo, err := s.anticipoRepo.TotalAplicado(orDB(tx, s.anticipoRepo.DB()), anticipo.ID)
	if err != nil {
		return err
	}
	disponible := finanzas.SaldoDisponible(anticipo, totalAnticipo).Add(montoPrevio)
	if aplicacion.MontoAplicado.GreaterThan(disponible) {
		return validacion("el monto excede el saldo disponible del anticipo")
	}

	// 4. no exceder el saldo por pagar de la compra
	totalCompra, err := s.compraRepo.TotalAplicado(orDB(tx, s.compraRepo.DB()), compra.ID)
	if err != nil {
		return err
	}
	saldo := finanzas.SaldoPorPagar(compra, totalCompra).Add(montoPrevio)
	if aplicacion.MontoAplicado.GreaterThan(saldo) {
		return validacion("el monto excede el saldo por pagar de la compra")
	}

	// 5. la terna (anticipo, compra, fecha) es unica
	existe, err := s.repo.ExistsTriple(db, anticipo.ID, compra.ID, aplicacion.Fecha, excluirID)
	if err != nil {
		return err
	}
	if existe {
		return validacion("ya existe una aplicacion de ese anticipo a esa compra en esa fecha")
	}
	return nil
}

// cerrar refreshes the anticipo's derived status after a write and builds the
// response with both resulting balances.
func (s *aplicacionService) cerrar(tx *gorm.DB, anticipo *model.Anticipo, compra *model.Compra, aplicacion *model.AplicacionAnticipo) (*dto.AplicacionResponse, error) {
	anticipoDB := orDB(tx, s.anticipoRepo.DB())
	totalAnticipo, err := s.anticipoRepo.TotalAplicado(anticipoDB, anticipo.ID)
	if err != nil {
		return nil, err
	}
	finanzas.ActualizarPendiente(anticipo, totalAnticipo)
	if err := s.anticipoRepo.Update(anticipoDB, anticipo); err != nil {
		return nil, err
	}

	totalCompra, err := s.compraRepo.TotalAplicado(orDB(tx, s.compraRepo.DB()), compra.ID)
	if err != nil {
		return nil, err
	}

	return &dto.AplicacionResponse{
		ID:                      aplicacion.ID.String(),
		AnticipoID:              anticipo.ID.String(),
		CompraID:                compra.ID.String(),
		Fecha:                   aplicacion.Fecha.Format("2006-01-02"),
		MontoAplicado:           aplicacion.MontoAplicado,
		AnticipoSaldoDisponible: finanzas.SaldoDisponible(anticipo, totalAnticipo),
		CompraSaldoPorPagar:     finanzas.SaldoPorPagar(compra, totalCompra),
	}, nil
}

func (s *aplicacionService) Obtener(ctx context.Context, id uuid.UUID) (*dto.AplicacionResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrado
	}
	return s.responder(a)
}

func (s *aplicacionService) ListarPorCompra(ctx context.Context, compraID uuid.UUID) ([]dto.AplicacionResponse, error) {
	aplicaciones, err := s.repo.ListPorCompra(ctx, compraID)
	if err != nil {
		return nil, err
	}
	return s.responderLista(aplicaciones)
}

func (s *aplicacionService) ListarPorAnticipo(ctx context.Context, anticipoID uuid.UUID) ([]dto.AplicacionResponse, error) {
	aplicaciones, err := s.repo.ListPorAnticipo(ctx, anticipoID)
	if err != nil {
		return nil, err
	}
	return s.responderLista(aplicaciones)
}

func (s *aplicacionService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarAplicacionRequest) (*dto.AplicacionResponse, error) {
	var resultado *dto.AplicacionResponse
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		db := orDB(tx, s.repo.DB())

		aplicacion, err := s.repo.FindByIDForUpdate(db, id)
		if err != nil {
			return ErrNoEncontrado
		}
		anticipo, err := s.anticipoRepo.FindByIDForUpdate(orDB(tx, s.anticipoRepo.DB()), aplicacion.AnticipoID)
		if err != nil {
			return err
		}
		compra, err := s.compraRepo.FindByIDForUpdate(orDB(tx, s.compraRepo.DB()), aplicacion.CompraID)
		if err != nil {
			return err
		}

		montoPrevio := aplicacion.MontoAplicado
		if req.Fecha != nil {
			fecha, err := time.Parse("2006-01-02", *req.Fecha)
			if err != nil {
				return validacion("fecha invalida")
			}
			aplicacion.Fecha = fecha
		}
		if req.MontoAplicado != nil {
			aplicacion.MontoAplicado = *req.MontoAplicado
		}

		if err := s.validar(db, tx, anticipo, compra, aplicacion, montoPrevio, &aplicacion.ID); err != nil {
			return err
		}
		if err := s.repo.Update(db, aplicacion); err != nil {
			if esDuplicado(err) {
				return ErrConflicto
			}
			return err
		}
		resultado, err = s.cerrar(tx, anticipo, compra, aplicacion)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}
	return resultado, nil
}

func (s *aplicacionService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		db := orDB(tx, s.repo.DB())

		aplicacion, err := s.repo.FindByIDForUpdate(db, id)
		if err != nil {
			return ErrNoEncontrado
		}
		anticipo, err := s.anticipoRepo.FindByIDForUpdate(orDB(tx, s.anticipoRepo.DB()), aplicacion.AnticipoID)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(db, id); err != nil {
			return err
		}

		// al quitar la aplicacion el anticipo puede volver a PENDIENTE
		anticipoDB := orDB(tx, s.anticipoRepo.DB())
		total, err := s.anticipoRepo.TotalAplicado(anticipoDB, anticipo.ID)
		if err != nil {
			return err
		}
		finanzas.ActualizarPendiente(anticipo, total)
		return s.anticipoRepo.Update(anticipoDB, anticipo)
	})
}

func (s *aplicacionService) responder(a *model.AplicacionAnticipo) (*dto.AplicacionResponse, error) {
	resp := &dto.AplicacionResponse{
		ID:            a.ID.String(),
		AnticipoID:    a.AnticipoID.String(),
		CompraID:      a.CompraID.String(),
		Fecha:         a.Fecha.Format("2006-01-02"),
		MontoAplicado: a.MontoAplicado,
	}
	if a.Anticipo != nil {
		total, err := s.anticipoRepo.TotalAplicado(s.anticipoRepo.DB(), a.AnticipoID)
		if err != nil {
			return nil, err
		}
		resp.AnticipoSaldoDisponible = finanzas.SaldoDisponible(a.Anticipo, total)
	}
	if a.Compra != nil {
		total, err := s.compraRepo.TotalAplicado(s.compraRepo.DB(), a.CompraID)
		if err != nil {
			return nil, err
		}
		resp.CompraSaldoPorPagar = finanzas.SaldoPorPagar(a.Compra, total)
	}
	return resp, nil
}

func (s *aplicacionService) responderLista(aplicaciones []model.AplicacionAnticipo) ([]dto.AplicacionResponse, error) {
	out := make([]dto.AplicacionResponse, 0, len(aplicaciones))
	for i := range aplicaciones {
		resp, err := s.responder(&aplicaciones[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

// esDuplicado detects a unique-index violation surfaced by the driver.
func esDuplicado(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
