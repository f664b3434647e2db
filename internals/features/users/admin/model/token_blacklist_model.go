package model

import (
	"time"

	"gorm.io/gorm"
)

// TokenBlacklistModel invalidates access tokens on logout. Only the SHA-256
// hash of the token is stored.
type TokenBlacklistModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	TokenHash string         `json:"token_hash" gorm:"column:token_hash;type:varchar(64);not null;uniqueIndex"`
	ExpiredAt time.Time      `json:"expired_at" gorm:"column:expired_at;not null"`
	CreatedAt time.Time      `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (TokenBlacklistModel) TableName() string {
	return "token_blacklists"
}
