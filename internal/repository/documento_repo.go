package repository

import (
	"context"

	"pagoscompras/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentoRepository interface {
	Create(ctx context.Context, d *model.DocumentoCompra) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DocumentoCompra, error)
	ListPorCompra(ctx context.Context, compraID uuid.UUID) ([]model.DocumentoCompra, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type documentoRepo struct{ db *gorm.DB }

func NewDocumentoRepository(db *gorm.DB) DocumentoRepository { return &documentoRepo{db: db} }

func (r *documentoRepo) Create(ctx context.Context, d *model.DocumentoCompra) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *documentoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.DocumentoCompra, error) {
	var d model.DocumentoCompra
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	return &d, err
}

func (r *documentoRepo) ListPorCompra(ctx context.Context, compraID uuid.UUID) ([]model.DocumentoCompra, error) {
	var docs []model.DocumentoCompra
	err := r.db.WithContext(ctx).
		Where("compra_id = ?", compraID).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

func (r *documentoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.DocumentoCompra{}, "id = ?", id).Error
}
