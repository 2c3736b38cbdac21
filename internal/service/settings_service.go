package service

import (
	"context"
	"encoding/json"

	"shopmanager/internal/dto"
	"shopmanager/internal/model"
	"shopmanager/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type SettingsService interface {
	Get(ctx context.Context) (*dto.ShopSettingsResponse, error)
	// Save upserts all three keys in one transaction — never a partial write.
	Save(ctx context.Context, req dto.ShopSettingsRequest) (*dto.ShopSettingsResponse, error)
}

type settingsService struct {
	repo repository.SettingsRepository
	rdb  *redis.Client
}

func NewSettingsService(repo repository.SettingsRepository, rdb *redis.Client) SettingsService {
	return &settingsService{repo: repo, rdb: rdb}
}

func (s *settingsService) Get(ctx context.Context) (*dto.ShopSettingsResponse, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, cacheKeySettings).Bytes(); err == nil {
			var cached dto.ShopSettingsResponse
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	values, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.ShopSettingsResponse{
		ShopName:          model.DefaultShopName,
		TaxNumber:         "",
		DefaultTaxPercent: decimal.NewFromInt(model.DefaultTaxPercent),
	}
	if v, ok := values[model.SettingShopName]; ok {
		resp.ShopName = v
	}
	if v, ok := values[model.SettingTaxNumber]; ok {
		resp.TaxNumber = v
	}
	if v, ok := values[model.SettingDefaultTaxPercent]; ok {
		if pct, err := decimal.NewFromString(v); err == nil {
			resp.DefaultTaxPercent = pct
		}
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			_ = s.rdb.Set(ctx, cacheKeySettings, raw, cacheTTL).Err()
		}
	}
	return resp, nil
}

func (s *settingsService) Save(ctx context.Context, req dto.ShopSettingsRequest) (*dto.ShopSettingsResponse, error) {
	values := map[string]string{
		model.SettingShopName:          req.ShopName,
		model.SettingTaxNumber:         req.TaxNumber,
		model.SettingDefaultTaxPercent: req.DefaultTaxPercent.String(),
	}
	if err := s.repo.UpsertAll(ctx, values); err != nil {
		return nil, err
	}
	invalidate(ctx, s.rdb, cacheKeySettings)
	return &dto.ShopSettingsResponse{
		ShopName:          req.ShopName,
		TaxNumber:         req.TaxNumber,
		DefaultTaxPercent: req.DefaultTaxPercent,
	}, nil
}
