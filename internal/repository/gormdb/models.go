package gormdb

// ShellSetting is the row model for persisted shell preferences.
type ShellSetting struct {
	Key       string   `gorm:"column:setting_key;primaryKey;size:128"`
	Value     LongText `gorm:"not null"`
	CreatedAt int64    `gorm:"autoCreateTime:false"`
	UpdatedAt int64    `gorm:"autoUpdateTime:false"`
}

func (ShellSetting) TableName() string {
	return "shell_settings"
}

// AllModels returns every model managed by auto-migration.
func AllModels() []any {
	return []any{
		&ShellSetting{},
	}
}
