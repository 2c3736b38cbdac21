package repository

import (
	"context"

	"shopmanager/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository reads and upserts the shop_settings key/value rows.
type SettingsRepository interface {
	GetAll(ctx context.Context) (map[string]string, error)
	// UpsertAll writes every pair inside one transaction — a failure on any
	// key rolls back all of them.
	UpsertAll(ctx context.Context, values map[string]string) error
}

type settingsRepo struct{ db *gorm.DB }

func NewSettingsRepository(db *gorm.DB) SettingsRepository { return &settingsRepo{db: db} }

func (r *settingsRepo) GetAll(ctx context.Context) (map[string]string, error) {
	var rows []model.ShopSetting
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.SettingKey] = row.SettingValue
	}
	return out, nil
}

func (r *settingsRepo) UpsertAll(ctx context.Context, values map[string]string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			row := model.ShopSetting{SettingKey: key, SettingValue: value}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "setting_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"setting_value"}),
			}).Create(&row).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
