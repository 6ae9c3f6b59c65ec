package model

import "time"

// Reminder lead-time labels. A ReminderSent row for (appointment, label)
// permanently suppresses resending that lead-time's reminder.
const (
	Reminder24h = "24h"
	Reminder16h = "16h"
	Reminder8h  = "8h"
	Reminder1h  = "1h"
)

// ReminderSent is an append-only idempotency marker, one row per
// (appointment, lead-time) pair ever sent.
type ReminderSent struct {
	ID            uint      `json:"id" gorm:"primarykey"`
	AppointmentID uint      `json:"appointment_id" gorm:"column:appointment_id;not null;uniqueIndex:idx_appointment_reminder"`
	ReminderType  string    `json:"reminder_type" gorm:"column:reminder_type;type:varchar(4);not null;uniqueIndex:idx_appointment_reminder"`
	CreatedAt     time.Time `json:"created_at"`
}

func (ReminderSent) TableName() string {
	return "appointment_reminders_sent"
}

// ReminderCheckpoint records the instant of the last completed reminder
// sweep. A single row is kept; the sweeper uses it to catch up windows that
// elapsed while the process was down instead of silently losing them.
type ReminderCheckpoint struct {
	ID      uint      `json:"id" gorm:"primarykey"`
	SweptAt time.Time `json:"swept_at" gorm:"column:swept_at"`
}
