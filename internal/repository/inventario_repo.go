package repository

import (
	"context"
	"errors"
	"time"

	"tiendaropa/internal/dto"
	"tiendaropa/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventarioRepository owns every write to inventario.stock_actual.
// Stock only changes through AplicarDelta.
type InventarioRepository interface {
	// ObtenerLinea loads the (producto, talla) line. Inside a transaction the
	// row is locked FOR UPDATE until the transaction ends.
	ObtenerLinea(ctx context.Context, tx *gorm.DB, productoID, tallaID uuid.UUID) (*model.Inventario, error)
	// AplicarDelta adds delta to stock_actual only if the result stays >= 0.
	// Returns ErrStockInsuficiente when the guard fails and
	// gorm.ErrRecordNotFound when the line does not exist.
	AplicarDelta(ctx context.Context, tx *gorm.DB, productoID, tallaID uuid.UUID, delta int) (*model.Inventario, error)
	// Crear inserts a new line. Used by compras for unseen (producto, talla) pairs.
	Crear(ctx context.Context, tx *gorm.DB, inv *model.Inventario) error
	// Upsert sets precio_unitario and stock_critico, leaving stock untouched.
	Upsert(ctx context.Context, tx *gorm.DB, inv *model.Inventario) error
	List(ctx context.Context, filter dto.InventarioFilter) ([]model.Inventario, int64, error)
	ListCriticos(ctx context.Context) ([]model.Inventario, error)
	DB() *gorm.DB
}

type inventarioRepo struct{ db *gorm.DB }

func NewInventarioRepository(db *gorm.DB) InventarioRepository { return &inventarioRepo{db: db} }

func (r *inventarioRepo) DB() *gorm.DB { return r.db }

func (r *inventarioRepo) ObtenerLinea(ctx context.Context, tx *gorm.DB, productoID, tallaID uuid.UUID) (*model.Inventario, error) {
	q := conn(ctx, r.db, tx)
	if tx != nil {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var inv model.Inventario
	err := q.Where("producto_id = ? AND talla_id = ?", productoID, tallaID).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *inventarioRepo) AplicarDelta(ctx context.Context, tx *gorm.DB, productoID, tallaID uuid.UUID, delta int) (*model.Inventario, error) {
	q := conn(ctx, r.db, tx)
	var inv model.Inventario
	res := q.Model(&inv).
		Clauses(clause.Returning{}).
		Where("producto_id = ? AND talla_id = ? AND stock_actual + ? >= 0", productoID, tallaID, delta).
		Updates(map[string]interface{}{
			"stock_actual": gorm.Expr("stock_actual + ?", delta),
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 1 {
		return &inv, nil
	}

	// Guard failed: tell a missing line apart from a negative result.
	var n int64
	if err := conn(ctx, r.db, tx).Model(&model.Inventario{}).
		Where("producto_id = ? AND talla_id = ?", productoID, tallaID).
		Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return nil, ErrStockInsuficiente
}

func (r *inventarioRepo) Crear(ctx context.Context, tx *gorm.DB, inv *model.Inventario) error {
	return conn(ctx, r.db, tx).Omit("Producto", "Talla").Create(inv).Error
}

func (r *inventarioRepo) Upsert(ctx context.Context, tx *gorm.DB, inv *model.Inventario) error {
	return conn(ctx, r.db, tx).Omit("Producto", "Talla").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "producto_id"}, {Name: "talla_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"precio_unitario", "stock_critico", "updated_at"}),
	}).Create(inv).Error
}

func (r *inventarioRepo) List(ctx context.Context, filter dto.InventarioFilter) ([]model.Inventario, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Inventario{})
	if filter.ProductoID != "" {
		q = q.Where("inventario.producto_id = ?", filter.ProductoID)
	}
	if filter.TallaID != "" {
		q = q.Where("inventario.talla_id = ?", filter.TallaID)
	}
	if filter.CategoriaID != "" {
		q = q.Joins("JOIN productos ON productos.id = inventario.producto_id").
			Where("productos.categoria_id = ?", filter.CategoriaID)
	}
	if filter.SoloAlerta {
		q = q.Where("inventario.stock_actual <= inventario.stock_critico")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	_, limit, offset := paginar(filter.Page, filter.Limit, 50, 200)
	var lineas []model.Inventario
	err := q.Preload("Producto").Preload("Talla").
		Order("inventario.producto_id, inventario.talla_id").
		Offset(offset).Limit(limit).Find(&lineas).Error
	return lineas, total, err
}

func (r *inventarioRepo) ListCriticos(ctx context.Context) ([]model.Inventario, error) {
	var lineas []model.Inventario
	err := r.db.WithContext(ctx).
		Where("stock_actual <= stock_critico").
		Preload("Producto").Preload("Talla").
		Order("stock_actual ASC").
		Find(&lineas).Error
	return lineas, err
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }
