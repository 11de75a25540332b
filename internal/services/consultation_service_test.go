package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tradementor/internal/models/db_models"
	"tradementor/internal/repositories"
	"tradementor/pkg/utils"
)

// fakeConsultationRepo simulates the transactional slot lock with one
// mutex held for the whole InTx body, the way the row lock serializes
// concurrent bookers until commit.
type fakeConsultationRepo struct {
	mu            sync.Mutex
	consultations map[uuid.UUID]*db_models.Consultation
	blocks        map[string]bool
}

func slotKey(date time.Time, slot string) string {
	return utils.FormatDate(date) + " " + slot
}

func newFakeConsultationRepo() *fakeConsultationRepo {
	return &fakeConsultationRepo{
		consultations: map[uuid.UUID]*db_models.Consultation{},
		blocks:        map[string]bool{},
	}
}

func (f *fakeConsultationRepo) InTx(_ context.Context, fn func(tx repositories.IConsultationRepository) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(f)
}

func (f *fakeConsultationRepo) LockSlot(_ context.Context, date time.Time, slot string) ([]db_models.Consultation, error) {
	var existing []db_models.Consultation
	for _, c := range f.consultations {
		if utils.SameDate(c.ConsultationDate, date) && c.ConsultationTime == slot {
			existing = append(existing, *c)
		}
	}
	return existing, nil
}

func (f *fakeConsultationRepo) Create(_ context.Context, consultation *db_models.Consultation) error {
	if consultation.ID == uuid.Nil {
		consultation.ID = uuid.New()
	}
	f.consultations[consultation.ID] = consultation
	return nil
}

func (f *fakeConsultationRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.consultations, id)
	return nil
}

func (f *fakeConsultationRepo) FindByIDAndCustomerID(_ context.Context, id, customerID uuid.UUID) (*db_models.Consultation, error) {
	c, ok := f.consultations[id]
	if !ok || c.CustomerID != customerID {
		return nil, utils.ErrNotFound
	}
	return c, nil
}

func (f *fakeConsultationRepo) ExistsByCustomerAndSlot(_ context.Context, customerID uuid.UUID, date time.Time, slot string) (bool, error) {
	for _, c := range f.consultations {
		if c.CustomerID == customerID && utils.SameDate(c.ConsultationDate, date) && c.ConsultationTime == slot {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeConsultationRepo) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]db_models.Consultation, error) {
	var out []db_models.Consultation
	for _, c := range f.consultations {
		if c.CustomerID == customerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeConsultationRepo) CountByDate(_ context.Context, date time.Time) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, c := range f.consultations {
		if utils.SameDate(c.ConsultationDate, date) {
			counts[c.ConsultationTime]++
		}
	}
	return counts, nil
}

func (f *fakeConsultationRepo) IsBlocked(_ context.Context, date time.Time, slot string) (bool, error) {
	return f.blocks[slotKey(date, slot)], nil
}

func (f *fakeConsultationRepo) ListBlockedSlots(_ context.Context, date time.Time) ([]string, error) {
	var out []string
	for _, s := range db_models.TimeSlots {
		if f.blocks[slotKey(date, s)] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeConsultationRepo) CreateBlock(_ context.Context, block *db_models.ConsultationBlock) error {
	f.blocks[slotKey(block.BlockDate, block.BlockTime)] = true
	return nil
}

func (f *fakeConsultationRepo) DeleteBlock(_ context.Context, date time.Time, slot string) error {
	delete(f.blocks, slotKey(date, slot))
	return nil
}

func TestCreateReservation_RejectsInvalidSlot(t *testing.T) {
	repo := newFakeConsultationRepo()
	svc := NewConsultationService(repo, zap.NewNop())

	_, err := svc.CreateReservation(context.Background(), uuid.New(), kstDate(2026, 4, 1), "09:30")
	assert.ErrorIs(t, err, utils.ErrInvalidState)
}

func TestCreateReservation_BlockedSlot(t *testing.T) {
	repo := newFakeConsultationRepo()
	svc := NewConsultationService(repo, zap.NewNop())
	date := kstDate(2026, 4, 1)

	require.NoError(t, svc.BlockSlot(context.Background(), date, "10:00"))

	_, err := svc.CreateReservation(context.Background(), uuid.New(), date, "10:00")
	assert.ErrorIs(t, err, utils.ErrSlotBlocked)
}

func TestCreateReservation_DuplicateByCustomer(t *testing.T) {
	repo := newFakeConsultationRepo()
	svc := NewConsultationService(repo, zap.NewNop())
	date := kstDate(2026, 4, 1)
	customerID := uuid.New()

	_, err := svc.CreateReservation(context.Background(), customerID, date, "10:00")
	require.NoError(t, err)

	_, err = svc.CreateReservation(context.Background(), customerID, date, "10:00")
	assert.ErrorIs(t, err, utils.ErrDuplicateReservation)
}

func TestCreateReservation_CapacityEnforcedUnderConcurrency(t *testing.T) {
	repo := newFakeConsultationRepo()
	svc := NewConsultationService(repo, zap.NewNop())
	date := kstDate(2026, 4, 1)

	const bookers = 5
	errs := make(chan error, bookers)
	var wg sync.WaitGroup
	wg.Add(bookers)
	for i := 0; i < bookers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.CreateReservation(context.Background(), uuid.New(), date, "14:00")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded, full := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, utils.ErrSlotFull):
			full++
		}
	}

	assert.Equal(t, db_models.SlotCapacity, succeeded)
	assert.Equal(t, bookers-db_models.SlotCapacity, full)
}

func TestUpdateReservation_MovesToNewSlot(t *testing.T) {
	repo := newFakeConsultationRepo()
	svc := NewConsultationService(repo, zap.NewNop())
	date := kstDate(2026, 4, 1)
	customerID := uuid.New()

	oldID, err := svc.CreateReservation(context.Background(), customerID, date, "10:00")
	require.NoError(t, err)

	newID, err := svc.UpdateReservation(context.Background(), customerID, oldID, date, "15:00")
	require.NoError(t, err)
	assert.NotEqual(t, oldID, newID)

	_, ok := repo.consultations[oldID]
	assert.False(t, ok, "old reservation should be removed")

	moved := repo.consultations[newID]
	require.NotNil(t, moved)
	assert.Equal(t, "15:00", moved.ConsultationTime)
}

func TestUpdateReservation_OwnershipRequired(t *testing.T) {
	repo := newFakeConsultationRepo()
	svc := NewConsultationService(repo, zap.NewNop())
	date := kstDate(2026, 4, 1)

	ownerID := uuid.New()
	reservationID, err := svc.CreateReservation(context.Background(), ownerID, date, "10:00")
	require.NoError(t, err)

	_, err = svc.UpdateReservation(context.Background(), uuid.New(), reservationID, date, "15:00")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestGetDailyAvailability(t *testing.T) {
	repo := newFakeConsultationRepo()
	svc := NewConsultationService(repo, zap.NewNop())
	date := kstDate(2026, 4, 1)

	// Fill 10:00, half-fill 11:00, block 12:00.
	_, err := svc.CreateReservation(context.Background(), uuid.New(), date, "10:00")
	require.NoError(t, err)
	_, err = svc.CreateReservation(context.Background(), uuid.New(), date, "10:00")
	require.NoError(t, err)
	_, err = svc.CreateReservation(context.Background(), uuid.New(), date, "11:00")
	require.NoError(t, err)
	require.NoError(t, svc.BlockSlot(context.Background(), date, "12:00"))

	slots, err := svc.GetDailyAvailability(context.Background(), date)
	require.NoError(t, err)
	require.Len(t, slots, len(db_models.TimeSlots))

	byTime := map[string]int{}
	for i, s := range slots {
		byTime[s.Time] = i
	}

	full := slots[byTime["10:00"]]
	assert.Equal(t, int64(2), full.Reserved)
	assert.False(t, full.Available)

	half := slots[byTime["11:00"]]
	assert.Equal(t, int64(1), half.Reserved)
	assert.True(t, half.Available)

	blocked := slots[byTime["12:00"]]
	assert.True(t, blocked.Blocked)
	assert.False(t, blocked.Available)

	open := slots[byTime["13:00"]]
	assert.Equal(t, int64(0), open.Reserved)
	assert.True(t, open.Available)
}
