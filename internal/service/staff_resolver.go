package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/melodia-app/melodia-go-api/internal/dto"
	"github.com/melodia-app/melodia-go-api/internal/repository"
)

// Calendar filter types. Teacher, admin and staff selections already carry
// user ids; course and skill selections need a lookup.
const (
	FilterTypeCourse  = "course"
	FilterTypeSkill   = "skill"
	FilterTypeTeacher = "teacher"
	FilterTypeStudent = "student"
	FilterTypeAdmin   = "admin"
	FilterTypeStaff   = "staff"
)

// StaffResolver turns a calendar filter selection into the set of staff user
// ids whose availability the calendar should show. Results are memoized per
// filter key; a lookup failure keeps the previously resolved set so the
// calendar shows stale data instead of going blank.
type StaffResolver struct {
	courses repository.CourseRepository
	skills  repository.TeacherSkillRepository
	logger  zerolog.Logger

	mu         sync.Mutex
	generation uint64
	lastKey    string
	lastStaff  []uint
}

// NewStaffResolver builds a staff resolver.
func NewStaffResolver(courses repository.CourseRepository, skills repository.TeacherSkillRepository, logger zerolog.Logger) *StaffResolver {
	return &StaffResolver{
		courses: courses,
		skills:  skills,
		logger:  logger.With().Str("component", "staff_resolver").Logger(),
	}
}

// Resolve returns the staff ids for the given selection. Direct selections
// (teacher/admin/staff) are answered without a repository query. An empty
// filter type resolves to an empty set.
func (r *StaffResolver) Resolve(ctx context.Context, sel dto.FilterState) []uint {
	filterType := strings.ToLower(strings.TrimSpace(sel.FilterType))

	switch filterType {
	case "", FilterTypeStudent:
		return []uint{}
	case FilterTypeTeacher, FilterTypeAdmin, FilterTypeStaff:
		return collectFilterIDs(sel)
	}

	key := filterKey(filterType, sel)

	r.mu.Lock()
	if key == r.lastKey && r.lastStaff != nil {
		cached := append([]uint{}, r.lastStaff...)
		r.mu.Unlock()
		return cached
	}
	r.generation++
	generation := r.generation
	previous := append([]uint{}, r.lastStaff...)
	r.mu.Unlock()

	staff, err := r.lookup(ctx, filterType, collectFilterIDs(sel))
	if err != nil {
		r.logger.Error().Err(err).Str("filter_type", filterType).Msg("staff lookup failed, keeping previous set")
		return previous
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if generation != r.generation {
		// Superseded by a newer selection; hand the result to this caller
		// but do not let it overwrite the newer memoized state.
		return staff
	}
	r.lastKey = key
	r.lastStaff = append([]uint{}, staff...)

	return staff
}

// Reset clears the memoized selection, forcing the next Resolve to query.
func (r *StaffResolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastKey = ""
	r.lastStaff = nil
}

func (r *StaffResolver) lookup(ctx context.Context, filterType string, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return []uint{}, nil
	}

	switch filterType {
	case FilterTypeCourse:
		courses, err := r.courses.ListByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		var instructors []uint
		for _, course := range courses {
			instructors = append(instructors, course.InstructorIDs...)
		}
		return dedupeIDs(instructors), nil
	case FilterTypeSkill:
		staff, err := r.skills.StaffIDsBySkills(ctx, ids)
		if err != nil {
			return nil, err
		}
		return dedupeIDs(staff), nil
	default:
		return []uint{}, nil
	}
}

// collectFilterIDs merges the single selection with the multi selection,
// dropping zero ids and duplicates.
func collectFilterIDs(sel dto.FilterState) []uint {
	ids := make([]uint, 0, len(sel.SelectedFilters)+1)
	if sel.SelectedFilter != 0 {
		ids = append(ids, sel.SelectedFilter)
	}
	ids = append(ids, sel.SelectedFilters...)
	return dedupeIDs(ids)
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

// filterKey builds a stable serialization of the selection so identical
// selections do not trigger repeated lookups.
func filterKey(filterType string, sel dto.FilterState) string {
	ids := collectFilterIDs(sel)
	sorted := append([]uint{}, ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var b strings.Builder
	b.WriteString(filterType)
	for _, id := range sorted {
		fmt.Fprintf(&b, "|%d", id)
	}
	return b.String()
}
