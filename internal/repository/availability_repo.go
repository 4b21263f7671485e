package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/melodia-app/melodia-go-api/internal/models"
)

// AvailabilityRepository manages staff availability slot rows.
type AvailabilityRepository interface {
	Create(ctx context.Context, slot *models.AvailabilitySlot) error
	GetByID(ctx context.Context, id uint) (models.AvailabilitySlot, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Delete(ctx context.Context, id uint) error
	ListByStaff(ctx context.Context, staffIDs []uint, from, to time.Time) ([]models.AvailabilitySlot, error)
}

type availabilityRepository struct {
	db *gorm.DB
}

// NewAvailabilityRepository constructs an availability repository.
func NewAvailabilityRepository(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func (r *availabilityRepository) Create(ctx context.Context, slot *models.AvailabilitySlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *availabilityRepository) GetByID(ctx context.Context, id uint) (models.AvailabilitySlot, error) {
	var slot models.AvailabilitySlot
	if err := r.db.WithContext(ctx).First(&slot, id).Error; err != nil {
		return models.AvailabilitySlot{}, err
	}

	return slot, nil
}

func (r *availabilityRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AvailabilitySlot{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// Delete removes the slot row by id. A delete matching zero rows is not an
// error: a slot already consumed elsewhere counts as released.
func (r *availabilityRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.AvailabilitySlot{}, id).Error
}

func (r *availabilityRepository) ListByStaff(ctx context.Context, staffIDs []uint, from, to time.Time) ([]models.AvailabilitySlot, error) {
	if len(staffIDs) == 0 {
		return nil, nil
	}

	query := r.db.WithContext(ctx).Where("staff_id IN ?", staffIDs)
	if !from.IsZero() {
		query = query.Where("end_time > ?", from)
	}
	if !to.IsZero() {
		query = query.Where("start_time < ?", to)
	}

	var slots []models.AvailabilitySlot
	if err := query.Order("start_time ASC").Find(&slots).Error; err != nil {
		return nil, err
	}

	return slots, nil
}
