package model

import (
	"time"

	"github.com/google/uuid"
)

// AdminUserModel is a staff account for the admission dashboard. Accounts
// are provisioned by the seeder, not by any public endpoint.
type AdminUserModel struct {
	AdminID      uuid.UUID  `json:"admin_id" gorm:"column:admin_id;type:uuid;default:gen_random_uuid();primaryKey"`
	AdminName    string     `json:"admin_name" gorm:"column:admin_name;type:varchar(80);not null"`
	AdminEmail   string     `json:"admin_email" gorm:"column:admin_email;type:varchar(255);not null;uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"column:password_hash;type:varchar(100);not null"`
	IsActive     bool       `json:"is_active" gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" gorm:"column:updated_at;autoUpdateTime"`
}

func (AdminUserModel) TableName() string {
	return "admin_users"
}
