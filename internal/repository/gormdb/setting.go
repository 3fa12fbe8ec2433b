package gormdb

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/konnyaku-app/konnyaku/internal/domain"
)

type SettingRepository struct {
	db *DB
}

func NewSettingRepository(db *DB) *SettingRepository {
	return &SettingRepository{db: db}
}

func (r *SettingRepository) Get(key string) (string, error) {
	var model ShellSetting
	err := r.db.gorm.Where("setting_key = ?", key).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return model.Value.String(), nil
}

// Set inserts or overwrites key. CreatedAt is kept on overwrite.
func (r *SettingRepository) Set(key, value string) error {
	now := toTimestamp(time.Now())
	model := ShellSetting{
		Key:       key,
		Value:     LongText(value),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return r.db.gorm.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model).Error
}

func (r *SettingRepository) GetAll() ([]*domain.Setting, error) {
	var models []ShellSetting
	if err := r.db.gorm.Order("setting_key").Find(&models).Error; err != nil {
		return nil, err
	}
	settings := make([]*domain.Setting, 0, len(models))
	for i := range models {
		settings = append(settings, r.toDomain(&models[i]))
	}
	return settings, nil
}

func (r *SettingRepository) Delete(key string) error {
	return r.db.gorm.Where("setting_key = ?", key).Delete(&ShellSetting{}).Error
}

func (r *SettingRepository) toDomain(m *ShellSetting) *domain.Setting {
	return &domain.Setting{
		Key:       m.Key,
		Value:     m.Value.String(),
		CreatedAt: fromTimestamp(m.CreatedAt),
		UpdatedAt: fromTimestamp(m.UpdatedAt),
	}
}
