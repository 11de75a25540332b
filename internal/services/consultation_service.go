package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tradementor/internal/models/db_models"
	"tradementor/internal/models/response_models"
	"tradementor/internal/repositories"
	"tradementor/pkg/utils"
)

type ConsultationService interface {
	CreateReservation(ctx context.Context, customerID uuid.UUID, date time.Time, slot string) (uuid.UUID, error)
	UpdateReservation(ctx context.Context, customerID, consultationID uuid.UUID, newDate time.Time, newSlot string) (uuid.UUID, error)
	DeleteReservation(ctx context.Context, customerID, consultationID uuid.UUID) error

	GetDailyAvailability(ctx context.Context, date time.Time) ([]response_models.SlotAvailability, error)
	GetMyReservations(ctx context.Context, customerID uuid.UUID) ([]db_models.Consultation, error)

	BlockSlot(ctx context.Context, date time.Time, slot string) error
	UnblockSlot(ctx context.Context, date time.Time, slot string) error
}

type consultationService struct {
	repo   repositories.IConsultationRepository
	logger *zap.Logger
}

func NewConsultationService(repo repositories.IConsultationRepository, logger *zap.Logger) ConsultationService {
	return &consultationService{repo: repo, logger: logger}
}

func (s *consultationService) CreateReservation(ctx context.Context, customerID uuid.UUID, date time.Time, slot string) (uuid.UUID, error) {
	if !db_models.ValidTimeSlot(slot) {
		return uuid.Nil, utils.ErrInvalidState
	}
	date = utils.DateOnly(date)

	var createdID uuid.UUID
	err := s.repo.InTx(ctx, func(tx repositories.IConsultationRepository) error {
		// Lock the slot's rows first to close the concurrency window.
		existing, err := tx.LockSlot(ctx, date, slot)
		if err != nil {
			return err
		}

		blocked, err := tx.IsBlocked(ctx, date, slot)
		if err != nil {
			return err
		}
		if blocked {
			return utils.ErrSlotBlocked
		}

		duplicate, err := tx.ExistsByCustomerAndSlot(ctx, customerID, date, slot)
		if err != nil {
			return err
		}
		if duplicate {
			return utils.ErrDuplicateReservation
		}

		if len(existing) >= db_models.SlotCapacity {
			return utils.ErrSlotFull
		}

		consultation := &db_models.Consultation{
			CustomerID:       customerID,
			ConsultationDate: date,
			ConsultationTime: slot,
		}
		if err := tx.Create(ctx, consultation); err != nil {
			return err
		}
		createdID = consultation.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return createdID, nil
}

func (s *consultationService) UpdateReservation(ctx context.Context, customerID, consultationID uuid.UUID, newDate time.Time, newSlot string) (uuid.UUID, error) {
	if !db_models.ValidTimeSlot(newSlot) {
		return uuid.Nil, utils.ErrInvalidState
	}
	newDate = utils.DateOnly(newDate)

	var createdID uuid.UUID
	err := s.repo.InTx(ctx, func(tx repositories.IConsultationRepository) error {
		old, err := tx.FindByIDAndCustomerID(ctx, consultationID, customerID)
		if err != nil {
			return err
		}

		existing, err := tx.LockSlot(ctx, newDate, newSlot)
		if err != nil {
			return err
		}

		blocked, err := tx.IsBlocked(ctx, newDate, newSlot)
		if err != nil {
			return err
		}
		if blocked {
			return utils.ErrSlotBlocked
		}

		sameSlot := utils.SameDate(old.ConsultationDate, newDate) && old.ConsultationTime == newSlot
		if !sameSlot {
			duplicate, err := tx.ExistsByCustomerAndSlot(ctx, customerID, newDate, newSlot)
			if err != nil {
				return err
			}
			if duplicate {
				return utils.ErrDuplicateReservation
			}
			if len(existing) >= db_models.SlotCapacity {
				return utils.ErrSlotFull
			}
		}

		replacement := &db_models.Consultation{
			CustomerID:       customerID,
			ConsultationDate: newDate,
			ConsultationTime: newSlot,
		}
		if err := tx.Create(ctx, replacement); err != nil {
			return err
		}
		if err := tx.Delete(ctx, old.ID); err != nil {
			return err
		}
		createdID = replacement.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return createdID, nil
}

func (s *consultationService) DeleteReservation(ctx context.Context, customerID, consultationID uuid.UUID) error {
	target, err := s.repo.FindByIDAndCustomerID(ctx, consultationID, customerID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, target.ID)
}

// GetDailyAvailability is the lock-free read path: one aggregation of
// reservations plus the blocked set, then in-memory computation per
// fixed slot.
func (s *consultationService) GetDailyAvailability(ctx context.Context, date time.Time) ([]response_models.SlotAvailability, error) {
	date = utils.DateOnly(date)

	counts, err := s.repo.CountByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	blockedList, err := s.repo.ListBlockedSlots(ctx, date)
	if err != nil {
		return nil, err
	}
	blocked := make(map[string]bool, len(blockedList))
	for _, b := range blockedList {
		blocked[b] = true
	}

	result := make([]response_models.SlotAvailability, 0, len(db_models.TimeSlots))
	for _, slot := range db_models.TimeSlots {
		reserved := counts[slot]
		result = append(result, response_models.SlotAvailability{
			Time:      slot,
			Reserved:  reserved,
			Blocked:   blocked[slot],
			Available: !blocked[slot] && reserved < db_models.SlotCapacity,
		})
	}
	return result, nil
}

func (s *consultationService) GetMyReservations(ctx context.Context, customerID uuid.UUID) ([]db_models.Consultation, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *consultationService) BlockSlot(ctx context.Context, date time.Time, slot string) error {
	if !db_models.ValidTimeSlot(slot) {
		return utils.ErrInvalidState
	}
	return s.repo.CreateBlock(ctx, &db_models.ConsultationBlock{
		BlockDate: utils.DateOnly(date),
		BlockTime: slot,
	})
}

func (s *consultationService) UnblockSlot(ctx context.Context, date time.Time, slot string) error {
	return s.repo.DeleteBlock(ctx, utils.DateOnly(date), slot)
}
