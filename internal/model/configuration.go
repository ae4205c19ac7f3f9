package model

import (
	"time"

	"gorm.io/datatypes"
)

// Configuration is the persisted definition of the work a task performs.
// Tasks reference it by id; the scheduler itself never reads the payload.
type Configuration struct {
	ID        string         `gorm:"type:uuid;primaryKey"`
	UserID    string         `gorm:"type:varchar(64);not null;index"`
	Name      string         `gorm:"type:varchar(255);not null"`
	Type      string         `gorm:"type:varchar(50);not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	Timeout   int            `gorm:"default:60"`
	Enabled   bool           `gorm:"default:true"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (Configuration) TableName() string {
	return "configurations"
}

type GetConfigurationParam struct {
	IDs     []string `json:"ids"`
	UserID  *string  `json:"user_id"`
	Enabled *bool    `json:"enabled"`
	Limit   *int     `json:"limit"`
}
