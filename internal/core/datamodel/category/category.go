package category

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

type Category struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"column:name;not null"`
	Description *string   `json:"description,omitempty" gorm:"column:description"`
	Status      Status    `json:"status" gorm:"column:status;not null"`
	CreatedAt   time.Time `json:"createdAt" gorm:"column:created_at;not null"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) IsActive() bool {
	return c.Status == StatusActive
}
