package repository

import (
	"context"

	"pagoscompras/internal/dto"
	"pagoscompras/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnticipoRepository interface {
	Create(tx *gorm.DB, a *model.Anticipo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Anticipo, error)
	// FindByIDForUpdate toma un candado de fila (FOR UPDATE) dentro de la
	// transaccion dada.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Anticipo, error)
	List(ctx context.Context, filter dto.AnticipoFilter) ([]model.Anticipo, int64, error)
	Update(tx *gorm.DB, a *model.Anticipo) error
	Delete(ctx context.Context, id uuid.UUID) error
	// NextNumero devuelve max(numero_anticipo)+1 dentro de la transaccion.
	NextNumero(tx *gorm.DB) (int, error)
	// TotalAplicado suma las aplicaciones vigentes del anticipo.
	TotalAplicado(tx *gorm.DB, anticipoID uuid.UUID) (decimal.Decimal, error)
	SumaMontos(ctx context.Context) (decimal.Decimal, int64, error)
	DB() *gorm.DB
}

type anticipoRepo struct{ db *gorm.DB }

func NewAnticipoRepository(db *gorm.DB) AnticipoRepository { return &anticipoRepo{db: db} }

func (r *anticipoRepo) Create(tx *gorm.DB, a *model.Anticipo) error {
	return tx.Create(a).Error
}

func (r *anticipoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Anticipo, error) {
	var a model.Anticipo
	err := r.db.WithContext(ctx).
		Preload("Productor").
		Preload("Aplicaciones").
		First(&a, "id = ?", id).Error
	return &a, err
}

func (r *anticipoRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Anticipo, error) {
	var a model.Anticipo
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *anticipoRepo) List(ctx context.Context, filter dto.AnticipoFilter) ([]model.Anticipo, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Anticipo{})
	if filter.ProductorID != "" {
		q = q.Where("productor_id = ?", filter.ProductorID)
	}
	if filter.PendienteAplicar != "" {
		q = q.Where("pendiente_aplicar = ?", filter.PendienteAplicar)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var anticipos []model.Anticipo
	err := q.Preload("Productor").
		Order("fecha_pago DESC, numero_anticipo DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&anticipos).Error
	return anticipos, total, err
}

func (r *anticipoRepo) Update(tx *gorm.DB, a *model.Anticipo) error {
	return tx.Save(a).Error
}

func (r *anticipoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Anticipo{}, "id = ?", id).Error
}

func (r *anticipoRepo) NextNumero(tx *gorm.DB) (int, error) {
	var max *int
	err := tx.Model(&model.Anticipo{}).
		Select("MAX(numero_anticipo)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}

func (r *anticipoRepo) TotalAplicado(tx *gorm.DB, anticipoID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := tx.Model(&model.AplicacionAnticipo{}).
		Select("COALESCE(SUM(monto_aplicado), 0)").
		Where("anticipo_id = ?", anticipoID).
		Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

func (r *anticipoRepo) SumaMontos(ctx context.Context) (decimal.Decimal, int64, error) {
	var total decimal.NullDecimal
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Anticipo{})
	if err := q.Count(&count).Error; err != nil {
		return decimal.Zero, 0, err
	}
	if err := q.Select("COALESCE(SUM(monto_anticipo), 0)").Scan(&total).Error; err != nil {
		return decimal.Zero, 0, err
	}
	if !total.Valid {
		return decimal.Zero, count, nil
	}
	return total.Decimal, count, nil
}

func (r *anticipoRepo) DB() *gorm.DB { return r.db }
