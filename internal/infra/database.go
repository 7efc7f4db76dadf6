package infra

import (
	"fmt"

	"pagoscompras/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies any idempotent SQL patches that GORM
// cannot express (partial indexes, CHECK constraints).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates / updates the schema. Shared with integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Productor{},
		&model.TipoCambio{},
		&model.Anticipo{},
		&model.Compra{},
		&model.AplicacionAnticipo{},
		&model.DocumentoCompra{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Safe to re-run: every statement is guarded.
func applySchemaPatches(db *gorm.DB) error {
	// sqlite (repository tests) has no DO blocks; these patches are
	// postgres-only niceties so we skip them on other dialects.
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	patches := []string{
		// monto aplicado siempre positivo
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_aplicaciones_monto_positivo') THEN
		    ALTER TABLE aplicaciones_anticipo
		      ADD CONSTRAINT chk_aplicaciones_monto_positivo CHECK (monto_aplicado > 0);
		  END IF;
		END $$`,
		// porcentaje de division en (0, 100]
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_compras_porcentaje_division') THEN
		    ALTER TABLE compras
		      ADD CONSTRAINT chk_compras_porcentaje_division
		      CHECK (porcentaje_division IS NULL OR (porcentaje_division > 0 AND porcentaje_division <= 100));
		  END IF;
		END $$`,
		// indice parcial para el tablero de compras sin pagar
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_compras_sin_pagar') THEN
		    CREATE INDEX idx_compras_sin_pagar
		        ON compras (fecha_liq)
		        WHERE estatus_de_pago = 'SIN PAGAR';
		  END IF;
		END $$`,
	}
	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
