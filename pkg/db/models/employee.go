package models

import "time"

// Employee is a warehouse staff profile. The floor app identifies pickers by
// AccountID; no authentication happens beyond that.
type Employee struct {
	AccountID   int64     `gorm:"column:account_id;primaryKey;autoIncrement"`
	FirstName   string    `gorm:"column:first_name;not null"`
	LastName    string    `gorm:"column:last_name;not null"`
	Email       string    `gorm:"column:email;not null;uniqueIndex"`
	PhoneNumber *string   `gorm:"column:phone_number"`
	Address     *string   `gorm:"column:address"`
	City        *string   `gorm:"column:city"`
	State       *string   `gorm:"column:state"`
	ZipCode     *string   `gorm:"column:zip_code"`
	Position    *string   `gorm:"column:position"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}

// DisplayName renders the picker's name the way the console shows it.
func (e Employee) DisplayName() string {
	return e.FirstName + " " + e.LastName
}
