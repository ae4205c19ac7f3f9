package repository

import (
	"golang-scheduler/config"
	"golang-scheduler/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	ConfigurationRepo ConfigurationRepository
}

func NewRepository(cfg *config.Config, db *gorm.DB, log *logger.Logger) (*Repository, error) {
	return &Repository{
		ConfigurationRepo: NewConfigurationRepository(db),
	}, nil
}
