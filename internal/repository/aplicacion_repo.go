package repository

import (
	"context"
	"time"

	"pagoscompras/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AplicacionRepository interface {
	Create(tx *gorm.DB, a *model.AplicacionAnticipo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.AplicacionAnticipo, error)
	// FindByIDForUpdate toma candado de fila dentro de la transaccion dada.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.AplicacionAnticipo, error)
	// ExistsTriple reporta si ya hay una aplicacion del mismo anticipo a la
	// misma compra en la misma fecha, excluyendo opcionalmente un registro.
	ExistsTriple(tx *gorm.DB, anticipoID, compraID uuid.UUID, fecha time.Time, excluirID *uuid.UUID) (bool, error)
	ListPorCompra(ctx context.Context, compraID uuid.UUID) ([]model.AplicacionAnticipo, error)
	ListPorAnticipo(ctx context.Context, anticipoID uuid.UUID) ([]model.AplicacionAnticipo, error)
	Update(tx *gorm.DB, a *model.AplicacionAnticipo) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	DB() *gorm.DB
}

type aplicacionRepo struct{ db *gorm.DB }

func NewAplicacionRepository(db *gorm.DB) AplicacionRepository { return &aplicacionRepo{db: db} }

func (r *aplicacionRepo) Create(tx *gorm.DB, a *model.AplicacionAnticipo) error {
	return tx.Create(a).Error
}

func (r *aplicacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.AplicacionAnticipo, error) {
	var a model.AplicacionAnticipo
	err := r.db.WithContext(ctx).
		Preload("Anticipo").
		Preload("Compra").
		First(&a, "id = ?", id).Error
	return &a, err
}

func (r *aplicacionRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.AplicacionAnticipo, error) {
	var a model.AplicacionAnticipo
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *aplicacionRepo) ExistsTriple(tx *gorm.DB, anticipoID, compraID uuid.UUID, fecha time.Time, excluirID *uuid.UUID) (bool, error) {
	q := tx.Model(&model.AplicacionAnticipo{}).
		Where("anticipo_id = ? AND compra_id = ? AND fecha = ?",
			anticipoID, compraID, fecha.Format("2006-01-02"))
	if excluirID != nil {
		q = q.Where("id <> ?", *excluirID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *aplicacionRepo) ListPorCompra(ctx context.Context, compraID uuid.UUID) ([]model.AplicacionAnticipo, error) {
	var aplicaciones []model.AplicacionAnticipo
	err := r.db.WithContext(ctx).
		Preload("Anticipo").
		Where("compra_id = ?", compraID).
		Order("fecha DESC").
		Find(&aplicaciones).Error
	return aplicaciones, err
}

func (r *aplicacionRepo) ListPorAnticipo(ctx context.Context, anticipoID uuid.UUID) ([]model.AplicacionAnticipo, error) {
	var aplicaciones []model.AplicacionAnticipo
	err := r.db.WithContext(ctx).
		Preload("Compra").
		Where("anticipo_id = ?", anticipoID).
		Order("fecha DESC").
		Find(&aplicaciones).Error
	return aplicaciones, err
}

func (r *aplicacionRepo) Update(tx *gorm.DB, a *model.AplicacionAnticipo) error {
	return tx.Save(a).Error
}

func (r *aplicacionRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.AplicacionAnticipo{}, "id = ?", id).Error
}

func (r *aplicacionRepo) DB() *gorm.DB { return r.db }
