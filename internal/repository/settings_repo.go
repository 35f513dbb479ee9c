package repository

import (
	"context"

	"bizledger/internal/apperr"
	"bizledger/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository stores the key/value settings document
type SettingsRepository interface {
	All(ctx context.Context) (map[string]string, error)
	Put(ctx context.Context, values map[string]string) error
	SeedDefaults(ctx context.Context, defaults map[string]string) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) All(ctx context.Context) (map[string]string, error) {
	var rows []model.Setting
	if err := GetDB(ctx, r.db).Find(&rows).Error; err != nil {
		return nil, apperr.Persistence("load settings", err)
	}
	out := make(map[string]string, len(rows))
	for _, s := range rows {
		out[s.Key] = s.Value
	}
	return out, nil
}

func (r *settingsRepository) Put(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	rows := toSettings(values)
	err := GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&rows).Error
	if err != nil {
		return apperr.Persistence("save settings", err)
	}
	return nil
}

// SeedDefaults inserts missing keys and leaves existing values untouched.
func (r *settingsRepository) SeedDefaults(ctx context.Context, defaults map[string]string) error {
	if len(defaults) == 0 {
		return nil
	}
	rows := toSettings(defaults)
	if err := GetDB(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return apperr.Persistence("seed settings", err)
	}
	return nil
}

func toSettings(values map[string]string) []model.Setting {
	rows := make([]model.Setting, 0, len(values))
	for k, v := range values {
		rows = append(rows, model.Setting{Key: k, Value: v})
	}
	return rows
}
