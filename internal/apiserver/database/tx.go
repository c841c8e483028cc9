package database

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TxFrom returns the transaction bound to ctx by Store.Transaction, or nil
func TxFrom(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txKey{}).(*gorm.DB)
	return tx
}

// Transaction runs fn inside a single transaction. Store calls made with the
// ctx handed to fn join it; nested calls reuse the outer transaction.
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if TxFrom(ctx) != nil {
		return fn(ctx)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	if tx := TxFrom(ctx); tx != nil {
		return tx
	}
	return s.db.WithContext(ctx)
}
