package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/melodia-app/melodia-go-api/internal/dto"
	"github.com/melodia-app/melodia-go-api/internal/models"
)

type memoryAvailabilityRepo struct {
	slots   map[uint]models.AvailabilitySlot
	nextID  uint
	deleted []uint
}

func newMemoryAvailabilityRepo(slots ...models.AvailabilitySlot) *memoryAvailabilityRepo {
	repo := &memoryAvailabilityRepo{slots: make(map[uint]models.AvailabilitySlot), nextID: 1}
	for _, slot := range slots {
		if slot.ID >= repo.nextID {
			repo.nextID = slot.ID + 1
		}
		repo.slots[slot.ID] = slot
	}
	return repo
}

func (m *memoryAvailabilityRepo) Create(ctx context.Context, slot *models.AvailabilitySlot) error {
	slot.ID = m.nextID
	m.nextID++
	m.slots[slot.ID] = *slot
	return nil
}

func (m *memoryAvailabilityRepo) GetByID(ctx context.Context, id uint) (models.AvailabilitySlot, error) {
	slot, ok := m.slots[id]
	if !ok {
		return models.AvailabilitySlot{}, gorm.ErrRecordNotFound
	}
	return slot, nil
}

func (m *memoryAvailabilityRepo) Exists(ctx context.Context, id uint) (bool, error) {
	_, ok := m.slots[id]
	return ok, nil
}

func (m *memoryAvailabilityRepo) Delete(ctx context.Context, id uint) error {
	delete(m.slots, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *memoryAvailabilityRepo) ListByStaff(ctx context.Context, staffIDs []uint, from, to time.Time) ([]models.AvailabilitySlot, error) {
	var results []models.AvailabilitySlot
	for _, slot := range m.slots {
		for _, staffID := range staffIDs {
			if slot.StaffID == staffID && slot.EndTime.After(from) && slot.StartTime.Before(to) {
				results = append(results, slot)
			}
		}
	}
	return results, nil
}

func slotAt(id, staffID uint, start time.Time) models.AvailabilitySlot {
	return models.AvailabilitySlot{ID: id, StaffID: staffID, StartTime: start, EndTime: start.Add(time.Hour)}
}

func TestCreateSlotValidatesTimes(t *testing.T) {
	repo := newMemoryAvailabilityRepo()
	svc := NewAvailabilityService(repo, NewCapabilityService(), zerolog.Nop())
	teacher := Actor{ID: 5, Role: "teacher"}

	start := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	resp, err := svc.CreateSlot(context.Background(), teacher, dto.SlotCreateRequest{
		StaffID:   5,
		StartTime: start.Format(time.RFC3339),
		EndTime:   start.Add(time.Hour).Format(time.RFC3339),
	})
	require.NoError(t, err)
	require.Equal(t, uint(5), resp.StaffID)
	require.True(t, resp.EndTime.After(resp.StartTime))

	_, err = svc.CreateSlot(context.Background(), teacher, dto.SlotCreateRequest{
		StaffID:   5,
		StartTime: start.Format(time.RFC3339),
		EndTime:   start.Format(time.RFC3339),
	})
	require.Error(t, err)

	_, err = svc.CreateSlot(context.Background(), teacher, dto.SlotCreateRequest{
		StaffID:   5,
		StartTime: "yesterday",
		EndTime:   start.Format(time.RFC3339),
	})
	require.Error(t, err)
}

func TestCreateSlotRequiresCapability(t *testing.T) {
	svc := NewAvailabilityService(newMemoryAvailabilityRepo(), NewCapabilityService(), zerolog.Nop())

	start := time.Now().Add(time.Hour)
	_, err := svc.CreateSlot(context.Background(), Actor{ID: 9, Role: "student"}, dto.SlotCreateRequest{
		StaffID:   9,
		StartTime: start.Format(time.RFC3339),
		EndTime:   start.Add(time.Hour).Format(time.RFC3339),
	})
	require.ErrorIs(t, err, ErrSlotForbidden)
}

func TestReleaseSlotRemovesRow(t *testing.T) {
	repo := newMemoryAvailabilityRepo(slotAt(1, 5, time.Now()))
	svc := NewAvailabilityService(repo, NewCapabilityService(), zerolog.Nop())

	require.NoError(t, svc.ReleaseSlot(context.Background(), Actor{ID: 5, Role: "teacher"}, 1))

	exists, err := svc.SlotExists(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestReleaseSlotAlreadyGoneIsSuccess(t *testing.T) {
	repo := newMemoryAvailabilityRepo()
	svc := NewAvailabilityService(repo, NewCapabilityService(), zerolog.Nop())

	require.NoError(t, svc.ReleaseSlot(context.Background(), Actor{ID: 5, Role: "teacher"}, 42))
	require.Empty(t, repo.deleted)
}

func TestReleaseSlotOwnershipAndCapability(t *testing.T) {
	repo := newMemoryAvailabilityRepo(slotAt(1, 5, time.Now()))
	svc := NewAvailabilityService(repo, NewCapabilityService(), zerolog.Nop())

	err := svc.ReleaseSlot(context.Background(), Actor{ID: 6, Role: "teacher"}, 1)
	require.ErrorIs(t, err, ErrSlotForbidden)

	// Admins hold the availability delete capability for any staff member.
	require.NoError(t, svc.ReleaseSlot(context.Background(), Actor{ID: 99, Role: "admin"}, 1))
}

func TestListSlotsFiltersByStaffAndWindow(t *testing.T) {
	now := time.Now().UTC()
	repo := newMemoryAvailabilityRepo(
		slotAt(1, 5, now.Add(time.Hour)),
		slotAt(2, 6, now.Add(time.Hour)),
		slotAt(3, 5, now.Add(100*time.Hour)),
	)
	svc := NewAvailabilityService(repo, NewCapabilityService(), zerolog.Nop())

	slots, err := svc.ListSlots(context.Background(), []uint{5}, now, now.Add(48*time.Hour))
	require.NoError(t, err)
	require.Len(t, slots, 1)
	require.Equal(t, uint(1), slots[0].ID)
}
