package service

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/melodia-app/melodia-go-api/internal/models"
	"github.com/melodia-app/melodia-go-api/internal/repository"
)

type memoryCourseRepo struct {
	courses map[uint]models.Course
	nextID  uint
}

func newMemoryCourseRepo(courses ...models.Course) *memoryCourseRepo {
	repo := &memoryCourseRepo{courses: make(map[uint]models.Course), nextID: 1}
	for _, course := range courses {
		if course.ID >= repo.nextID {
			repo.nextID = course.ID + 1
		}
		repo.courses[course.ID] = course
	}
	return repo
}

func (m *memoryCourseRepo) List(ctx context.Context, filter repository.CourseFilter) ([]models.Course, int64, error) {
	results := make([]models.Course, 0, len(m.courses))
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, course := range m.courses {
		if search != "" && !strings.Contains(strings.ToLower(course.Title), search) {
			continue
		}
		results = append(results, course)
	}
	return results, int64(len(results)), nil
}

func (m *memoryCourseRepo) GetByID(ctx context.Context, id uint) (models.Course, error) {
	course, ok := m.courses[id]
	if !ok {
		return models.Course{}, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (m *memoryCourseRepo) ListByIDs(ctx context.Context, ids []uint) ([]models.Course, error) {
	results := make([]models.Course, 0, len(ids))
	for _, id := range ids {
		if course, ok := m.courses[id]; ok {
			results = append(results, course)
		}
	}
	return results, nil
}

func (m *memoryCourseRepo) Create(ctx context.Context, course *models.Course) error {
	course.ID = m.nextID
	m.nextID++
	m.courses[course.ID] = *course
	return nil
}

func (m *memoryCourseRepo) Update(ctx context.Context, course *models.Course) error {
	if _, ok := m.courses[course.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.courses[course.ID] = *course
	return nil
}

func (m *memoryCourseRepo) UpdateRoster(ctx context.Context, id uint, studentIDs datatypes.JSONSlice[uint], count int) error {
	course, ok := m.courses[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	course.StudentIDs = studentIDs
	course.Students = count
	m.courses[id] = course
	return nil
}

func (m *memoryCourseRepo) UpdateMaterialURL(ctx context.Context, id uint, url string) error {
	course, ok := m.courses[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	course.MaterialURL = url
	m.courses[id] = course
	return nil
}

func TestEnrollAppendsStudentAndCount(t *testing.T) {
	repo := newMemoryCourseRepo(models.Course{
		ID:         7,
		Title:      "Intro to Piano",
		StudentIDs: datatypes.NewJSONSlice([]uint{11}),
		Students:   1,
	})
	svc := NewEnrollmentService(repo, zerolog.Nop())

	resp, err := svc.Enroll(context.Background(), 7, 42)
	require.NoError(t, err)
	require.False(t, resp.AlreadyEnrolled)
	require.Equal(t, 2, resp.Students)

	stored := repo.courses[7]
	require.Equal(t, []uint{11, 42}, []uint(stored.StudentIDs))
	require.Equal(t, len(stored.StudentIDs), stored.Students)
}

func TestEnrollIsIdempotent(t *testing.T) {
	repo := newMemoryCourseRepo(models.Course{ID: 3, Title: "Violin basics"})
	svc := NewEnrollmentService(repo, zerolog.Nop())

	first, err := svc.Enroll(context.Background(), 3, 9)
	require.NoError(t, err)
	require.Equal(t, 1, first.Students)

	second, err := svc.Enroll(context.Background(), 3, 9)
	require.NoError(t, err)
	require.True(t, second.AlreadyEnrolled)
	require.Equal(t, 1, second.Students)

	stored := repo.courses[3]
	require.Equal(t, []uint{9}, []uint(stored.StudentIDs))
	require.Equal(t, 1, stored.Students)
}

func TestEnrollSequentialStudentsBothLand(t *testing.T) {
	repo := newMemoryCourseRepo(models.Course{ID: 1, Title: "Guitar lab"})
	svc := NewEnrollmentService(repo, zerolog.Nop())

	_, err := svc.Enroll(context.Background(), 1, 20)
	require.NoError(t, err)
	_, err = svc.Enroll(context.Background(), 1, 21)
	require.NoError(t, err)

	stored := repo.courses[1]
	require.Equal(t, []uint{20, 21}, []uint(stored.StudentIDs))
	require.Equal(t, 2, stored.Students)
}

func TestEnrollRejectsZeroStudent(t *testing.T) {
	repo := newMemoryCourseRepo(models.Course{ID: 1, Title: "Drums"})
	svc := NewEnrollmentService(repo, zerolog.Nop())

	_, err := svc.Enroll(context.Background(), 1, 0)
	require.ErrorIs(t, err, ErrInvalidStudent)
}

func TestEnrollUnknownCourse(t *testing.T) {
	svc := NewEnrollmentService(newMemoryCourseRepo(), zerolog.Nop())

	_, err := svc.Enroll(context.Background(), 99, 5)
	require.ErrorIs(t, err, ErrCourseNotFound)
}
