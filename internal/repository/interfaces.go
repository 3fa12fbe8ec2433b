package repository

import (
	"github.com/konnyaku-app/konnyaku/internal/domain"
)

// SettingRepository stores string settings by key.
// Get returns domain.ErrNotFound for keys that were never set.
type SettingRepository interface {
	Get(key string) (string, error)
	Set(key, value string) error
	GetAll() ([]*domain.Setting, error)
	Delete(key string) error
}
