package repository

import (
	"context"
	"errors"
	"time"

	"bizledger/internal/apperr"
	"bizledger/internal/model"

	"gorm.io/gorm"
)

// Collection is a durable, insertion-ordered set of records keyed by a
// domain identifier. Mutations should run inside TransactionManager.RunInTx
// so a failed persist rolls the whole unit of work back.
type Collection[T any] interface {
	Name() string
	Append(ctx context.Context, rec *T) error
	Get(ctx context.Context, key string) (*T, error)
	FirstBy(ctx context.Context, column string, value any) (*T, error)
	Update(ctx context.Context, key string, patch func(*T) error) (*T, error)
	Remove(ctx context.Context, key string) error
	All(ctx context.Context) ([]T, error)
	Find(ctx context.Context, pred func(T) bool) ([]T, error)
	Count(ctx context.Context) (int, error)
	Wipe(ctx context.Context) error
}

// recordPtr constrains PT to *T implementing the record contract.
type recordPtr[T any] interface {
	*T
	model.Record
	SetSeq(seq int64)
}

type collection[T any, PT recordPtr[T]] struct {
	db        *gorm.DB
	name      string
	keyColumn string
	now       func() time.Time
}

// NewCollection returns a GORM-backed collection over table name keyed by keyColumn.
func NewCollection[T any, PT recordPtr[T]](db *gorm.DB, name, keyColumn string) Collection[T] {
	return &collection[T, PT]{db: db, name: name, keyColumn: keyColumn, now: time.Now}
}

// WithClock overrides the clock used for last-updated stamps.
func WithClock[T any](c Collection[T], now func() time.Time) Collection[T] {
	type clocked interface{ setClock(func() time.Time) }
	if cc, ok := c.(clocked); ok {
		cc.setClock(now)
	}
	return c
}

func (c *collection[T, PT]) setClock(now func() time.Time) { c.now = now }

func (c *collection[T, PT]) Name() string { return c.name }

func (c *collection[T, PT]) Append(ctx context.Context, rec *T) error {
	key := PT(rec).RecordKey()
	if key == "" {
		return apperr.Validation("%s: key is required", c.name)
	}

	db := GetDB(ctx, c.db)
	exists, err := c.exists(db, key)
	if err != nil {
		return err
	}
	if exists {
		return apperr.DuplicateKey(c.name, key)
	}

	var maxSeq int64
	if err := db.Model(new(T)).Select("COALESCE(MAX(seq), 0)").Scan(&maxSeq).Error; err != nil {
		return apperr.Persistence("append "+c.name, err)
	}
	PT(rec).SetSeq(maxSeq + 1)

	if err := db.Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.DuplicateKey(c.name, key)
		}
		return apperr.Persistence("append "+c.name, err)
	}
	return nil
}

func (c *collection[T, PT]) Get(ctx context.Context, key string) (*T, error) {
	return c.first(forUpdate(GetDB(ctx, c.db)), c.keyColumn, key, key)
}

func (c *collection[T, PT]) FirstBy(ctx context.Context, column string, value any) (*T, error) {
	label, _ := value.(string)
	return c.first(forUpdate(GetDB(ctx, c.db)), column, value, label)
}

func (c *collection[T, PT]) Update(ctx context.Context, key string, patch func(*T) error) (*T, error) {
	db := GetDB(ctx, c.db)
	rec, err := c.first(forUpdate(db), c.keyColumn, key, key)
	if err != nil {
		return nil, err
	}

	if err := patch(rec); err != nil {
		return nil, err
	}
	if PT(rec).RecordKey() != key {
		return nil, apperr.Validation("%s: key can not be changed", c.name)
	}
	if t, ok := any(rec).(model.Toucher); ok {
		t.Touch(model.Today(c.now()))
	}

	if err := db.Save(rec).Error; err != nil {
		return nil, apperr.Persistence("update "+c.name, err)
	}
	return rec, nil
}

func (c *collection[T, PT]) Remove(ctx context.Context, key string) error {
	res := GetDB(ctx, c.db).Where(c.keyColumn+" = ?", key).Delete(new(T))
	if res.Error != nil {
		return apperr.Persistence("remove from "+c.name, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(c.name, key)
	}
	return nil
}

func (c *collection[T, PT]) All(ctx context.Context) ([]T, error) {
	var rows []T
	if err := GetDB(ctx, c.db).Order("seq asc").Find(&rows).Error; err != nil {
		return nil, apperr.Persistence("load "+c.name, err)
	}
	return rows, nil
}

func (c *collection[T, PT]) Find(ctx context.Context, pred func(T) bool) ([]T, error) {
	rows, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (c *collection[T, PT]) Count(ctx context.Context) (int, error) {
	var n int64
	if err := GetDB(ctx, c.db).Model(new(T)).Count(&n).Error; err != nil {
		return 0, apperr.Persistence("count "+c.name, err)
	}
	return int(n), nil
}

func (c *collection[T, PT]) Wipe(ctx context.Context) error {
	err := GetDB(ctx, c.db).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(new(T)).Error
	if err != nil {
		return apperr.Persistence("wipe "+c.name, err)
	}
	return nil
}

func (c *collection[T, PT]) exists(db *gorm.DB, key string) (bool, error) {
	var n int64
	if err := db.Model(new(T)).Where(c.keyColumn+" = ?", key).Count(&n).Error; err != nil {
		return false, apperr.Persistence("read "+c.name, err)
	}
	return n > 0, nil
}

func (c *collection[T, PT]) first(db *gorm.DB, column string, value any, label string) (*T, error) {
	rec := new(T)
	if err := db.Where(column+" = ?", value).First(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(c.name, label)
		}
		return nil, apperr.Persistence("read "+c.name, err)
	}
	return rec, nil
}
