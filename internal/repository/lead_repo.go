package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/melodia-app/melodia-go-api/internal/models"
)

// LeadFilter narrows the admin lead listing.
type LeadFilter struct {
	Page     int
	PageSize int
	Status   string
	Skill    string
}

// LeadRepository persists prospective-student inquiries.
type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	List(ctx context.Context, filter LeadFilter) ([]models.Lead, int64, error)
}

type leadRepository struct {
	db *gorm.DB
}

// NewLeadRepository constructs a lead repository.
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) Create(ctx context.Context, lead *models.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *leadRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).Model(&models.Lead{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *leadRepository) List(ctx context.Context, filter LeadFilter) ([]models.Lead, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Lead{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if filter.Skill != "" {
		query = query.Where("skill = ?", filter.Skill)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var leads []models.Lead
	if err := query.Order("created_at DESC").Find(&leads).Error; err != nil {
		return nil, 0, err
	}

	return leads, total, nil
}
