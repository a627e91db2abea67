package infra

import (
	"fmt"
	"time"

	"tiendaropa/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection backed by pgx. When autoMigrate is set
// it creates / updates every table and then applies the idempotent SQL patches
// AutoMigrate cannot express (sequences, partial indexes).
//
// Foreign keys are not created by AutoMigrate: productos are hard-deleted from
// the catalog while sales and purchases keep pointing at them, which is how an
// annulment detects PRODUCTO_ELIMINADO.
func NewDatabase(dsn string, autoMigrate bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
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
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if autoMigrate {
		if err := RunMigrations(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// RunMigrations creates the schema. Used at startup when DB_AUTO_MIGRATE is set
// and by integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Cliente{},
		&model.Proveedor{},
		&model.Categoria{},
		&model.Talla{},
		&model.Producto{},
		&model.Inventario{},
		&model.Venta{},
		&model.DetalleVenta{},
		&model.Compra{},
		&model.DetalleCompra{},
		&model.MovimientoStock{},
		&model.HistorialPrecio{},
		&model.Comprobante{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// handle on its own. Each statement uses IF NOT EXISTS semantics so re-running
// on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"ventas folio sequence",
			`CREATE SEQUENCE IF NOT EXISTS ventas_folio_seq START 1`},
		// critical-stock report scans only the lines at or below threshold
		{"partial index inventario en alerta",
			`CREATE INDEX IF NOT EXISTS idx_inventario_alerta
			     ON inventario (producto_id) WHERE stock_actual <= stock_critico`},
		{"ventas fecha index",
			`CREATE INDEX IF NOT EXISTS idx_ventas_fecha_estado ON ventas (fecha, estado)`},
		{"compras fecha index",
			`CREATE INDEX IF NOT EXISTS idx_compras_fecha_estado ON compras (fecha, estado)`},
		{"movimientos por linea",
			`CREATE INDEX IF NOT EXISTS idx_movimientos_linea
			     ON movimientos_stock (producto_id, talla_id, created_at DESC)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
