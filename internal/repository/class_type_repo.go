package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/melodia-app/melodia-go-api/internal/models"
)

// ClassTypeRepository provides read access to class type templates.
type ClassTypeRepository interface {
	GetByID(ctx context.Context, id uint) (models.ClassType, error)
	List(ctx context.Context) ([]models.ClassType, error)
}

type classTypeRepository struct {
	db *gorm.DB
}

// NewClassTypeRepository constructs a class type repository.
func NewClassTypeRepository(db *gorm.DB) ClassTypeRepository {
	return &classTypeRepository{db: db}
}

func (r *classTypeRepository) GetByID(ctx context.Context, id uint) (models.ClassType, error) {
	var classType models.ClassType
	if err := r.db.WithContext(ctx).First(&classType, id).Error; err != nil {
		return models.ClassType{}, err
	}

	return classType, nil
}

func (r *classTypeRepository) List(ctx context.Context) ([]models.ClassType, error) {
	var classTypes []models.ClassType
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&classTypes).Error; err != nil {
		return nil, err
	}

	return classTypes, nil
}
