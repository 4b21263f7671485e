package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/melodia-app/melodia-go-api/internal/models"
)

// TeacherSkillRepository resolves staff associated with teachable skills.
type TeacherSkillRepository interface {
	StaffIDsBySkills(ctx context.Context, skillIDs []uint) ([]uint, error)
}

type teacherSkillRepository struct {
	db *gorm.DB
}

// NewTeacherSkillRepository constructs a teacher-skill repository.
func NewTeacherSkillRepository(db *gorm.DB) TeacherSkillRepository {
	return &teacherSkillRepository{db: db}
}

func (r *teacherSkillRepository) StaffIDsBySkills(ctx context.Context, skillIDs []uint) ([]uint, error) {
	if len(skillIDs) == 0 {
		return nil, nil
	}

	var staffIDs []uint
	err := r.db.WithContext(ctx).
		Model(&models.TeacherSkill{}).
		Where("skill_id IN ?", skillIDs).
		Distinct().
		Pluck("staff_id", &staffIDs).Error
	if err != nil {
		return nil, err
	}

	return staffIDs, nil
}
