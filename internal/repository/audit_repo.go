package repository

import (
	"context"

	"bizledger/internal/apperr"
	"bizledger/internal/model"

	"gorm.io/gorm"
)

// AuditRepository is append-only: there is no update or delete.
type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error)
	Recent(ctx context.Context, n int) ([]model.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	if err := GetDB(ctx, r.db).Create(entry).Error; err != nil {
		return apperr.Persistence("write audit log", err)
	}
	return nil
}

func (r *auditRepository) List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, apperr.Persistence("count audit logs", err)
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc, id desc").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return nil, 0, apperr.Persistence("load audit logs", err)
	}

	return logs, total, nil
}

func (r *auditRepository) Recent(ctx context.Context, n int) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	if err := GetDB(ctx, r.db).Order("created_at desc, id desc").Limit(n).Find(&logs).Error; err != nil {
		return nil, apperr.Persistence("load audit logs", err)
	}
	return logs, nil
}
