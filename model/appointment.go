package model

import (
	"time"
)

// Appointment occupies one time slot for one dentist on one date.
// There is deliberately no soft-delete column: a cancelled appointment must
// free its slot immediately, and the composite unique index below would
// otherwise keep blocking it.
type Appointment struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"column:user_id;not null"`
	DentistID uint      `json:"dentist_id" gorm:"column:dentist_id;not null;uniqueIndex:idx_dentist_date_slot"`
	Date      string    `json:"date" gorm:"column:date;type:varchar(10);not null;uniqueIndex:idx_dentist_date_slot"`
	TimeSlot  string    `json:"time_slot" gorm:"column:time_slot;type:varchar(5);not null;uniqueIndex:idx_dentist_date_slot"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TimeSlots is the fixed universe of bookable slots per day, in the order
// clients expect them back.
var TimeSlots = []string{
	"09:00",
	"10:00",
	"11:00",
	"12:00",
	"13:00",
	"14:00",
	"15:00",
	"16:00",
}

// AvailableSlots returns TimeSlots minus the booked set, preserving order.
func AvailableSlots(booked []string) []string {
	taken := make(map[string]bool, len(booked))
	for _, slot := range booked {
		taken[slot] = true
	}

	available := []string{}
	for _, slot := range TimeSlots {
		if !taken[slot] {
			available = append(available, slot)
		}
	}
	return available
}

// StartsAt combines the date and time slot columns into a wall-clock instant
// in the given location. Dates are stored as YYYY-MM-DD and slots as HH:MM.
func (a *Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", a.Date+" "+a.TimeSlot, loc)
}
