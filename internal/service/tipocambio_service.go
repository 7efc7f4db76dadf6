package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"pagoscompras/internal/config"
	"pagoscompras/internal/dto"
	"pagoscompras/internal/infra"
	"pagoscompras/internal/model"
	"pagoscompras/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ObjetivoPublicacionDOF makes the sync store each rate under its DOF
// publication date (one day before the Banxico series date) instead of the
// date Banxico reports.
const ObjetivoPublicacionDOF = "publicacion_dof"

const (
	syncLockKey = "lock:tc_sync"
	syncLockTTL = 10 * time.Minute

	fuenteDOF = "Diario Oficial de la Federacion"
)

// CotizacionFetcher abstrae al cliente Banxico para las pruebas unitarias.
type CotizacionFetcher interface {
	Cotizaciones(ctx context.Context, desde, hasta time.Time) ([]infra.Cotizacion, error)
}

type TipoCambioService interface {
	Crear(ctx context.Context, req dto.CrearTipoCambioRequest) (*dto.TipoCambioResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.TipoCambioResponse, error)
	Listar(ctx context.Context, filter dto.TipoCambioFilter) ([]dto.TipoCambioResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarTipoCambioRequest) (*dto.TipoCambioResponse, error)
	// Sincronizar trae las cotizaciones de los ultimos days dias desde
	// Banxico y las inserta o actualiza en un solo paso atomico. Si el
	// servicio externo falla no se toca ningun registro.
	Sincronizar(ctx context.Context, days int) (*dto.SyncTipoCambioResponse, error)
}

type tipoCambioService struct {
	repo    repository.TipoCambioRepository
	fetcher CotizacionFetcher
	rdb     *redis.Client
	cfg     *config.Config
}

func NewTipoCambioService(repo repository.TipoCambioRepository, fetcher CotizacionFetcher, rdb *redis.Client, cfg *config.Config) TipoCambioService {
	return &tipoCambioService{repo: repo, fetcher: fetcher, rdb: rdb, cfg: cfg}
}

func (s *tipoCambioService) Crear(ctx context.Context, req dto.CrearTipoCambioRequest) (*dto.TipoCambioResponse, error) {
	fecha, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		return nil, validacion("fecha invalida")
	}
	if _, err := s.repo.FindByFecha(ctx, fecha); err == nil {
		return nil, ErrConflicto
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	tc := &model.TipoCambio{Fecha: fecha, TC: req.TC, Fuente: fuenteDOF}
	if req.Fuente != "" {
		tc.Fuente = req.Fuente
	}
	if err := s.repo.Create(ctx, tc); err != nil {
		return nil, err
	}
	resp := tipoCambioToResponse(tc)
	return &resp, nil
}

func (s *tipoCambioService) Obtener(ctx context.Context, id uuid.UUID) (*dto.TipoCambioResponse, error) {
	tc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrado
	}
	resp := tipoCambioToResponse(tc)
	return &resp, nil
}

func (s *tipoCambioService) Listar(ctx context.Context, filter dto.TipoCambioFilter) ([]dto.TipoCambioResponse, error) {
	tcs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TipoCambioResponse, len(tcs))
	for i := range tcs {
		resp[i] = tipoCambioToResponse(&tcs[i])
	}
	return resp, nil
}

func (s *tipoCambioService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarTipoCambioRequest) (*dto.TipoCambioResponse, error) {
	tc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrado
	}
	tc.TC = req.TC
	if req.Fuente != "" {
		tc.Fuente = req.Fuente
	}
	if err := s.repo.Update(ctx, tc); err != nil {
		return nil, err
	}
	resp := tipoCambioToResponse(tc)
	return &resp, nil
}

func (s *tipoCambioService) Sincronizar(ctx context.Context, days int) (*dto.SyncTipoCambioResponse, error) {
	if days <= 0 {
		days = s.cfg.BanxicoSyncDays
	}
	if days <= 0 {
		days = 5
	}

	// Candado distribuido: una sola sincronizacion a la vez, venga del
	// cron o de una peticion manual.
	if s.rdb != nil {
		ok, err := s.rdb.SetNX(ctx, syncLockKey, time.Now().UTC().Format(time.RFC3339), syncLockTTL).Result()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, validacion("ya hay una sincronizacion de tipo de cambio en curso")
		}
		defer s.rdb.Del(context.WithoutCancel(ctx), syncLockKey)
	}

	hasta := time.Now().Truncate(24 * time.Hour)
	desde := hasta.AddDate(0, 0, -days)

	// Con objetivo publicacion_dof la serie se recorre un dia hacia atras,
	// asi que pedimos unos dias extra al final para cubrir el corrimiento.
	fetchHasta := hasta
	if s.cfg.BanxicoObjetivo == ObjetivoPublicacionDOF {
		fetchHasta = hasta.AddDate(0, 0, 3)
	}

	cotizaciones, err := s.fetcher.Cotizaciones(ctx, desde, fetchHasta)
	if err != nil {
		if errors.Is(err, infra.ErrBanxicoNoDisponible) {
			log.Warn().Err(err).Msg("tc_sync: banxico no disponible, se aborta sin cambios")
		}
		return nil, err
	}

	// las filas sincronizadas quedan marcadas con la serie de origen para
	// distinguirlas de las capturas manuales
	fuente := strings.TrimSpace("Banxico " + s.cfg.BanxicoSerieID)

	resp := &dto.SyncTipoCambioResponse{}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, cot := range cotizaciones {
			fecha := cot.Fecha
			if s.cfg.BanxicoObjetivo == ObjetivoPublicacionDOF {
				fecha = fecha.AddDate(0, 0, -1)
			}
			if fecha.After(hasta) {
				continue
			}
			existia, err := s.repo.UpsertPorFecha(tx, &model.TipoCambio{
				Fecha:  fecha,
				TC:     cot.Valor,
				Fuente: fuente,
			})
			if err != nil {
				return err
			}
			if existia {
				resp.Actualizados++
			} else {
				resp.Creados++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp.Total = resp.Creados + resp.Actualizados

	log.Info().
		Int("creados", resp.Creados).
		Int("actualizados", resp.Actualizados).
		Str("desde", desde.Format("2006-01-02")).
		Str("hasta", hasta.Format("2006-01-02")).
		Msg("tc_sync: sincronizacion completada")
	return resp, nil
}

func tipoCambioToResponse(tc *model.TipoCambio) dto.TipoCambioResponse {
	return dto.TipoCambioResponse{
		ID:     tc.ID.String(),
		Fecha:  tc.Fecha.Format("2006-01-02"),
		TC:     tc.TC,
		Fuente: tc.Fuente,
	}
}
