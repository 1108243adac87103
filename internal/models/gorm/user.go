package gorm

import "time"

type User struct {
	ID          string    `gorm:"column:id;primaryKey;type:uuid"`
	Username    string    `gorm:"column:username;uniqueIndex"`
	DisplayName string    `gorm:"column:display_name"`
	Role        string    `gorm:"column:role"`
	IsSuperuser bool      `gorm:"column:is_superuser;default:false"`
	IsActive    bool      `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
