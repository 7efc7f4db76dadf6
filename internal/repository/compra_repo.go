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

type CompraRepository interface {
	Create(tx *gorm.DB, c *model.Compra) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Compra, error)
	List(ctx context.Context, filter dto.CompraFilter) ([]model.Compra, int64, error)
	Update(tx *gorm.DB, c *model.Compra) error
	Delete(ctx context.Context, id uuid.UUID) error
	// TotalAplicado suma las aplicaciones de anticipo sobre la compra.
	TotalAplicado(tx *gorm.DB, compraID uuid.UUID) (decimal.Decimal, error)
	// TotalPorcentajeDividido suma porcentaje_division de las divisiones
	// hijas de la compra dada.
	TotalPorcentajeDividido(tx *gorm.DB, parentID uuid.UUID) (decimal.Decimal, error)
	ListDivisiones(ctx context.Context, parentID uuid.UUID) ([]model.Compra, error)
	SumaLibras(ctx context.Context) (decimal.Decimal, int64, error)
	DB() *gorm.DB
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) Create(tx *gorm.DB, c *model.Compra) error {
	return tx.Create(c).Error
}

func (r *compraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).
		Preload("Productor").
		Preload("TipoCambio").
		Preload("Divisiones").
		Preload("Aplicaciones").
		Preload("Aplicaciones.Anticipo").
		Preload("Documentos").
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *compraRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *compraRepo) List(ctx context.Context, filter dto.CompraFilter) ([]model.Compra, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Compra{})
	if filter.Q != "" {
		like := "%" + filter.Q + "%"
		q = q.Joins("LEFT JOIN productores ON productores.id = compras.productor_id").
			Where("CAST(compras.numero_compra AS TEXT) ILIKE ? OR productores.nombre ILIKE ? OR compras.factura ILIKE ?", like, like, like)
	}
	if filter.ProductorID != "" {
		q = q.Where("compras.productor_id = ?", filter.ProductorID)
	}
	if filter.FechaDesde != "" {
		q = q.Where("compras.fecha_liq >= ?", filter.FechaDesde)
	}
	if filter.FechaHasta != "" {
		q = q.Where("compras.fecha_liq <= ?", filter.FechaHasta)
	}
	if filter.EstatusDePago != "" {
		q = q.Where("compras.estatus_de_pago = ?", filter.EstatusDePago)
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

	var compras []model.Compra
	err := q.Preload("Productor").
		Order("compras.fecha_liq DESC, compras.numero_compra DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&compras).Error
	return compras, total, err
}

func (r *compraRepo) Update(tx *gorm.DB, c *model.Compra) error {
	return tx.Save(c).Error
}

func (r *compraRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Compra{}, "id = ?", id).Error
}

func (r *compraRepo) TotalAplicado(tx *gorm.DB, compraID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := tx.Model(&model.AplicacionAnticipo{}).
		Select("COALESCE(SUM(monto_aplicado), 0)").
		Where("compra_id = ?", compraID).
		Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

func (r *compraRepo) TotalPorcentajeDividido(tx *gorm.DB, parentID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := tx.Model(&model.Compra{}).
		Select("COALESCE(SUM(porcentaje_division), 0)").
		Where("parent_compra_id = ?", parentID).
		Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

func (r *compraRepo) ListDivisiones(ctx context.Context, parentID uuid.UUID) ([]model.Compra, error) {
	var divisiones []model.Compra
	err := r.db.WithContext(ctx).
		Where("parent_compra_id = ?", parentID).
		Order("created_at").
		Find(&divisiones).Error
	return divisiones, err
}

func (r *compraRepo) SumaLibras(ctx context.Context) (decimal.Decimal, int64, error) {
	var total decimal.NullDecimal
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Compra{})
	if err := q.Count(&count).Error; err != nil {
		return decimal.Zero, 0, err
	}
	if err := q.Select("COALESCE(SUM(compra_en_libras), 0)").Scan(&total).Error; err != nil {
		return decimal.Zero, 0, err
	}
	if !total.Valid {
		return decimal.Zero, count, nil
	}
	return total.Decimal, count, nil
}

func (r *compraRepo) DB() *gorm.DB { return r.db }
