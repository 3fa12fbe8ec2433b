package gormdb

import (
	"database/sql/driver"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// LongText is a text column portable across the supported databases.
type LongText string

// GormDBDataType picks the column type per dialect.
func (LongText) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "LONGTEXT"
	default:
		return "TEXT"
	}
}

// Value implements driver.Valuer.
func (lt LongText) Value() (driver.Value, error) {
	return string(lt), nil
}

// Scan implements sql.Scanner.
func (lt *LongText) Scan(value interface{}) error {
	if value == nil {
		*lt = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*lt = LongText(v)
		return nil
	case []byte:
		*lt = LongText(v)
		return nil
	default:
		return fmt.Errorf("unsupported LongText scan type %T", value)
	}
}

func (lt LongText) String() string {
	return string(lt)
}
