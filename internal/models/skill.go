package models

import "time"

// Skill is a teachable discipline (piano, violin, vocals, ...).
type Skill struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TeacherSkill associates a staff member with a skill they teach.
type TeacherSkill struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	StaffID uint `gorm:"index:idx_teacher_skill,unique;not null" json:"staff_id"`
	SkillID uint `gorm:"index:idx_teacher_skill,unique;not null" json:"skill_id"`
}
