package repository

import (
	"context"

	"pagoscompras/internal/dto"
	"pagoscompras/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductorRepository interface {
	Create(ctx context.Context, p *model.Productor) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Productor, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Productor, error)
	List(ctx context.Context, filter dto.ProductorFilter) ([]model.Productor, error)
	Update(ctx context.Context, p *model.Productor) error
	SetActivo(ctx context.Context, id uuid.UUID, activo bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	TieneMovimientos(ctx context.Context, id uuid.UUID) (bool, error)
	CountActivos(ctx context.Context) (int64, error)
}

type productorRepo struct{ db *gorm.DB }

func NewProductorRepository(db *gorm.DB) ProductorRepository { return &productorRepo{db: db} }

func (r *productorRepo) Create(ctx context.Context, p *model.Productor) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Productor, error) {
	var p model.Productor
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productorRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Productor, error) {
	var p model.Productor
	err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&p).Error
	return &p, err
}

func (r *productorRepo) List(ctx context.Context, filter dto.ProductorFilter) ([]model.Productor, error) {
	var productores []model.Productor
	q := r.db.WithContext(ctx)
	if filter.Q != "" {
		like := "%" + filter.Q + "%"
		q = q.Where("nombre ILIKE ? OR codigo ILIKE ? OR cuenta_productor ILIKE ?", like, like, like)
	}
	if !filter.IncluirInactivos {
		q = q.Where("activo = true")
	}
	err := q.Order("nombre").Find(&productores).Error
	return productores, err
}

func (r *productorRepo) Update(ctx context.Context, p *model.Productor) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productorRepo) SetActivo(ctx context.Context, id uuid.UUID, activo bool) error {
	return r.db.WithContext(ctx).Model(&model.Productor{}).Where("id = ?", id).Update("activo", activo).Error
}

func (r *productorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Productor{}, "id = ?", id).Error
}

// TieneMovimientos reporta si el productor tiene compras o anticipos
// registrados. Un productor con movimientos no se elimina, solo se desactiva.
func (r *productorRepo) TieneMovimientos(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Compra{}).Where("productor_id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}
	if err := r.db.WithContext(ctx).Model(&model.Anticipo{}).Where("productor_id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *productorRepo) CountActivos(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Productor{}).Where("activo = true").Count(&n).Error
	return n, err
}
