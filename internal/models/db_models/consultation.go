package db_models

import (
	"time"

	"github.com/google/uuid"
)

// SlotCapacity is the fixed number of bookings per (date, time) slot.
const SlotCapacity = 2

// TimeSlots enumerates the bookable hourly slots of a day.
var TimeSlots = []string{
	"10:00", "11:00", "12:00", "13:00",
	"14:00", "15:00", "16:00", "17:00", "18:00",
}

type Consultation struct {
	BaseModel
	CustomerID uuid.UUID `gorm:"index"`

	ConsultationDate time.Time `gorm:"type:date;index:idx_consultation_slot"`
	ConsultationTime string    `gorm:"size:5;index:idx_consultation_slot"` // "HH:MM"

	IsProcessed bool `gorm:"default:false"`

	Customer Customer `gorm:"foreignKey:CustomerID"`
}

// ConsultationBlock marks a slot administratively closed: zero bookings
// are permitted regardless of capacity.
type ConsultationBlock struct {
	BaseModel
	BlockDate time.Time `gorm:"type:date;index:idx_consultation_block_slot"`
	BlockTime string    `gorm:"size:5;index:idx_consultation_block_slot"`
}

func ValidTimeSlot(t string) bool {
	for _, s := range TimeSlots {
		if s == t {
			return true
		}
	}
	return false
}
