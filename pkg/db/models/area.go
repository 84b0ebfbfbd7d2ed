package models

// Area is a named grouping of bins used to partition picking work.
type Area struct {
	ID   int64  `gorm:"column:area_id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null"`
}

func (Area) TableName() string {
	return "areas"
}
