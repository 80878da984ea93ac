package db_models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Fields holds the custom form fields of a submission. The storage layer gives
// no key a special meaning.
type Fields map[string]string

func (f Fields) Value() (driver.Value, error) {
	if len(f) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]string(f))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (f *Fields) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*f = Fields{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("fields: unsupported type %T", value)
	}

	out := map[string]string{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("fields: %w", err)
		}
	}
	*f = out
	return nil
}

func (f Fields) Get(key string) string {
	if f == nil {
		return ""
	}
	return f[key]
}

// Feedback is a single submission. Rows are never updated.
type Feedback struct {
	ID      uint      `gorm:"primaryKey;autoIncrement"`
	Time    time.Time `gorm:"not null;index"`
	User    string    `gorm:"size:191"`
	Pro     int       `gorm:"not null;default:0"`
	Contra  int       `gorm:"not null;default:0"`
	PostID  uint      `gorm:"not null;index"`
	Message string    `gorm:"type:text;not null"`
	Fields  Fields    `gorm:"type:text"`
}

func (Feedback) TableName() string { return "helpful_feedback" }
