package repository

import (
	"context"
	"errors"

	"tiendaropa/internal/rut"

	"gorm.io/gorm"
)

// ErrStockInsuficiente is returned by conditional stock updates that would
// leave stock_actual below zero. No row is modified in that case.
var ErrStockInsuficiente = errors.New("stock insuficiente")

// conn returns tx when the caller runs inside a transaction, db otherwise.
func conn(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

func paginar(page, limit, defLimit, maxLimit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxLimit {
		limit = defLimit
	}
	return page, limit, (page - 1) * limit
}

// rutCuerpo resolves an already validated RUT filter to its body.
// Invalid input maps to 0, which matches no row.
func rutCuerpo(s string) int {
	n, err := rut.Resolver(s)
	if err != nil {
		return 0
	}
	return n
}
