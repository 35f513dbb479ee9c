package repository

import (
	"context"

	"bizledger/internal/apperr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type contextKey string

const txKey contextKey = "gorm_tx"

// TransactionManager runs a unit of work: it locks the named collections,
// then runs fn inside one database transaction injected via context.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error, collections ...string) error
}

type transactionManager struct {
	db     *gorm.DB
	locker Locker
}

func NewTransactionManager(db *gorm.DB, locker Locker) TransactionManager {
	if locker == nil {
		locker = NewMutexLocker(0)
	}
	return &transactionManager{db: db, locker: locker}
}

func (t *transactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error, collections ...string) error {
	// Already inside a unit of work: its locks and transaction cover us.
	if InTx(ctx) {
		return fn(ctx)
	}

	unlock, err := t.locker.Lock(ctx, collections...)
	if err != nil {
		return err
	}
	defer unlock()

	var fnErr error
	err = t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey, tx)
		fnErr = fn(txCtx)
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return apperr.Persistence("commit transaction", err)
	}
	return nil
}

// InTx reports whether ctx carries a transaction
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey).(*gorm.DB)
	return ok
}

// GetDB extracts the transaction DB from context if present, otherwise returns root DB.
func GetDB(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return rootDB.WithContext(ctx)
}

// forUpdate adds a row lock where the dialect supports it (sqlite does not).
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}
