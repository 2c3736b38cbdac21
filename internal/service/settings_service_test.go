package service

import (
	"context"
	"testing"

	"shopmanager/internal/dto"
	"shopmanager/internal/model"
	"shopmanager/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSettingsRepo stores settings rows in a plain map.
type stubSettingsRepo struct {
	values map[string]string
}

func newStubSettingsRepo() *stubSettingsRepo {
	return &stubSettingsRepo{values: make(map[string]string)}
}

func (r *stubSettingsRepo) GetAll(_ context.Context) (map[string]string, error) {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out, nil
}

func (r *stubSettingsRepo) UpsertAll(_ context.Context, values map[string]string) error {
	for k, v := range values {
		r.values[k] = v
	}
	return nil
}

var _ repository.SettingsRepository = (*stubSettingsRepo)(nil)

func TestSettingsDefaultsBeforeFirstSave(t *testing.T) {
	svc := NewSettingsService(newStubSettingsRepo(), nil)

	resp, err := svc.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.DefaultShopName, resp.ShopName)
	assert.Equal(t, "", resp.TaxNumber)
	assert.True(t, resp.DefaultTaxPercent.Equal(decimal.NewFromInt(model.DefaultTaxPercent)))
}

func TestSettingsSaveRoundtrip(t *testing.T) {
	repo := newStubSettingsRepo()
	svc := NewSettingsService(repo, nil)

	saved, err := svc.Save(context.Background(), dto.ShopSettingsRequest{
		ShopName:          "Acme Corner Store",
		TaxNumber:         "GST-12345",
		DefaultTaxPercent: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corner Store", saved.ShopName)

	resp, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Acme Corner Store", resp.ShopName)
	assert.Equal(t, "GST-12345", resp.TaxNumber)
	assert.True(t, resp.DefaultTaxPercent.Equal(decimal.NewFromInt(5)))
}

func TestSettingsZeroTaxIsNotTheDefault(t *testing.T) {
	repo := newStubSettingsRepo()
	svc := NewSettingsService(repo, nil)

	// An explicitly saved zero tax must survive, not fall back to 18.
	_, err := svc.Save(context.Background(), dto.ShopSettingsRequest{
		ShopName:          "Tax Free Shop",
		DefaultTaxPercent: decimal.Zero,
	})
	require.NoError(t, err)

	resp, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.DefaultTaxPercent.IsZero(), "got %s", resp.DefaultTaxPercent)
	assert.Equal(t, "", resp.TaxNumber)
}
