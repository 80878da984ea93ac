package db_models

type Option struct {
	Name  string `gorm:"primaryKey;size:191"`
	Value string `gorm:"type:text"`
}

func (Option) TableName() string { return "helpful_options" }
