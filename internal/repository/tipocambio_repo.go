package repository

import (
	"context"
	"time"

	"pagoscompras/internal/dto"
	"pagoscompras/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TipoCambioRepository interface {
	Create(ctx context.Context, tc *model.TipoCambio) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TipoCambio, error)
	FindByFecha(ctx context.Context, fecha time.Time) (*model.TipoCambio, error)
	// UltimoHasta devuelve el registro mas reciente con fecha <= la dada.
	UltimoHasta(ctx context.Context, fecha time.Time) (*model.TipoCambio, error)
	Ultimo(ctx context.Context) (*model.TipoCambio, error)
	List(ctx context.Context, filter dto.TipoCambioFilter) ([]model.TipoCambio, error)
	Update(ctx context.Context, tc *model.TipoCambio) error
	// UpsertPorFecha inserta o actualiza por fecha dentro de la transaccion
	// dada. Devuelve true si la fila ya existia.
	UpsertPorFecha(tx *gorm.DB, tc *model.TipoCambio) (existia bool, err error)
	DB() *gorm.DB
}

type tipoCambioRepo struct{ db *gorm.DB }

func NewTipoCambioRepository(db *gorm.DB) TipoCambioRepository { return &tipoCambioRepo{db: db} }

func (r *tipoCambioRepo) Create(ctx context.Context, tc *model.TipoCambio) error {
	return r.db.WithContext(ctx).Create(tc).Error
}

func (r *tipoCambioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TipoCambio, error) {
	var tc model.TipoCambio
	err := r.db.WithContext(ctx).First(&tc, "id = ?", id).Error
	return &tc, err
}

func (r *tipoCambioRepo) FindByFecha(ctx context.Context, fecha time.Time) (*model.TipoCambio, error) {
	var tc model.TipoCambio
	err := r.db.WithContext(ctx).Where("fecha = ?", fecha.Format("2006-01-02")).First(&tc).Error
	return &tc, err
}

func (r *tipoCambioRepo) UltimoHasta(ctx context.Context, fecha time.Time) (*model.TipoCambio, error) {
	var tc model.TipoCambio
	err := r.db.WithContext(ctx).
		Where("fecha <= ?", fecha.Format("2006-01-02")).
		Order("fecha DESC").
		First(&tc).Error
	return &tc, err
}

func (r *tipoCambioRepo) Ultimo(ctx context.Context) (*model.TipoCambio, error) {
	var tc model.TipoCambio
	err := r.db.WithContext(ctx).Order("fecha DESC").First(&tc).Error
	return &tc, err
}

func (r *tipoCambioRepo) List(ctx context.Context, filter dto.TipoCambioFilter) ([]model.TipoCambio, error) {
	var tcs []model.TipoCambio
	q := r.db.WithContext(ctx)
	if filter.Desde != "" {
		q = q.Where("fecha >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("fecha <= ?", filter.Hasta)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 90
	}
	err := q.Order("fecha DESC").Limit(limit).Find(&tcs).Error
	return tcs, err
}

func (r *tipoCambioRepo) Update(ctx context.Context, tc *model.TipoCambio) error {
	return r.db.WithContext(ctx).Save(tc).Error
}

func (r *tipoCambioRepo) UpsertPorFecha(tx *gorm.DB, tc *model.TipoCambio) (bool, error) {
	var existente model.TipoCambio
	err := tx.Where("fecha = ?", tc.Fecha.Format("2006-01-02")).First(&existente).Error
	if err == nil {
		return true, tx.Model(&existente).Updates(map[string]any{
			"tc":     tc.TC,
			"fuente": tc.Fuente,
		}).Error
	}
	if err != gorm.ErrRecordNotFound {
		return false, err
	}
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fecha"}},
		DoUpdates: clause.AssignmentColumns([]string{"tc", "fuente"}),
	}).Create(tc)
	return false, res.Error
}

func (r *tipoCambioRepo) DB() *gorm.DB { return r.db }
