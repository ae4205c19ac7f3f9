package repository

import (
	"context"
	"errors"

	"golang-scheduler/internal/model"

	"gorm.io/gorm"
)

type ConfigurationRepository interface {
	Create(ctx context.Context, configuration *model.Configuration) error
	Update(ctx context.Context, configuration *model.Configuration) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Configuration, error)
	Get(ctx context.Context, param *model.GetConfigurationParam) ([]model.Configuration, error)

	// GetConfiguration satisfies the scheduler's configuration lookup contract:
	// absent rows are reported as (nil, nil), not as an error.
	GetConfiguration(ctx context.Context, id string) (*model.Configuration, error)
}

type configurationRepository struct {
	db *gorm.DB
}

func NewConfigurationRepository(db *gorm.DB) ConfigurationRepository {
	return &configurationRepository{db: db}
}

func (r *configurationRepository) Create(ctx context.Context, configuration *model.Configuration) error {
	return r.db.WithContext(ctx).Create(configuration).Error
}

func (r *configurationRepository) Update(ctx context.Context, configuration *model.Configuration) error {
	return r.db.WithContext(ctx).Updates(configuration).Error
}

func (r *configurationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Configuration{}, "id = ?", id).Error
}

func (r *configurationRepository) FindByID(ctx context.Context, id string) (*model.Configuration, error) {
	var configuration model.Configuration
	err := r.db.WithContext(ctx).First(&configuration, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &configuration, nil
}

func (r *configurationRepository) Get(ctx context.Context, param *model.GetConfigurationParam) ([]model.Configuration, error) {
	var configurations []model.Configuration
	db := r.db.WithContext(ctx).Model(&model.Configuration{})
	if len(param.IDs) > 0 {
		db = db.Where("id IN ?", param.IDs)
	}
	if param.UserID != nil {
		db = db.Where("user_id = ?", *param.UserID)
	}
	if param.Enabled != nil {
		db = db.Where("enabled = ?", *param.Enabled)
	}
	if param.Limit != nil {
		db = db.Limit(*param.Limit)
	}
	if err := db.Order("created_at DESC").Find(&configurations).Error; err != nil {
		return nil, err
	}
	return configurations, nil
}

func (r *configurationRepository) GetConfiguration(ctx context.Context, id string) (*model.Configuration, error) {
	return r.FindByID(ctx, id)
}
