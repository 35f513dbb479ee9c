package service

import (
	"context"
	"strconv"
	"strings"

	"bizledger/internal/model"
	"bizledger/internal/repository"

	"go.uber.org/zap"
)

// Settings is the typed view of the settings document
type Settings struct {
	CompanyName       string `json:"company_name"`
	CurrencySymbol    string `json:"currency_symbol"`
	LowStockThreshold int    `json:"low_stock_threshold"`
}

// DefaultSettings are seeded on first run
var DefaultSettings = Settings{
	CompanyName:       "My Business",
	CurrencySymbol:    "$",
	LowStockThreshold: 10,
}

type UpdateSettingsRequest struct {
	CompanyName       *string `json:"company_name"`
	CurrencySymbol    *string `json:"currency_symbol"`
	LowStockThreshold *int    `json:"low_stock_threshold" binding:"omitempty,min=0"`
}

type SettingsService interface {
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (Settings, error)
	SeedDefaults(ctx context.Context) error
}

type settingsService struct {
	repo repository.SettingsRepository
	log  *zap.Logger
}

func NewSettingsService(repo repository.SettingsRepository, log *zap.Logger) SettingsService {
	return &settingsService{repo: repo, log: log.Named("settings")}
}

func (s *settingsService) Get(ctx context.Context) (Settings, error) {
	values, err := s.repo.All(ctx)
	if err != nil {
		return Settings{}, err
	}
	return s.fromValues(values), nil
}

func (s *settingsService) Update(ctx context.Context, req UpdateSettingsRequest) (Settings, error) {
	if err := validate(req); err != nil {
		return Settings{}, err
	}
	values := make(map[string]string, 3)
	if req.CompanyName != nil {
		values[model.SettingCompanyName] = strings.TrimSpace(*req.CompanyName)
	}
	if req.CurrencySymbol != nil {
		values[model.SettingCurrencySymbol] = strings.TrimSpace(*req.CurrencySymbol)
	}
	if req.LowStockThreshold != nil {
		values[model.SettingLowStockThreshold] = strconv.Itoa(*req.LowStockThreshold)
	}
	if err := s.repo.Put(ctx, values); err != nil {
		return Settings{}, err
	}
	return s.Get(ctx)
}

func (s *settingsService) SeedDefaults(ctx context.Context) error {
	return s.repo.SeedDefaults(ctx, map[string]string{
		model.SettingCompanyName:       DefaultSettings.CompanyName,
		model.SettingCurrencySymbol:    DefaultSettings.CurrencySymbol,
		model.SettingLowStockThreshold: strconv.Itoa(DefaultSettings.LowStockThreshold),
	})
}

// fromValues never fails: a missing key takes its default and an
// unparsable number reads as zero.
func (s *settingsService) fromValues(values map[string]string) Settings {
	out := DefaultSettings
	if v, ok := values[model.SettingCompanyName]; ok {
		out.CompanyName = v
	}
	if v, ok := values[model.SettingCurrencySymbol]; ok {
		out.CurrencySymbol = v
	}
	if v, ok := values[model.SettingLowStockThreshold]; ok {
		out.LowStockThreshold = s.parseInt(model.SettingLowStockThreshold, v)
	}
	return out
}

func (s *settingsService) parseInt(key, raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		// tolerate "10.0" written by older clients
		if f, ferr := strconv.ParseFloat(strings.TrimSpace(raw), 64); ferr == nil {
			return int(f)
		}
		s.log.Warn("unparsable numeric setting, using 0", zap.String("key", key), zap.String("value", raw))
		return 0
	}
	return n
}
