// Package scheduler runs the periodic reminder sweep over upcoming
// appointments. Reminders go out at four fixed lead times before the
// appointment; an idempotency marker per (appointment, lead time) guarantees
// at-most-once delivery, and a persisted sweep checkpoint lets a restarted
// process catch up windows that elapsed while it was down.
package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Paul-trunc/DentalAppointments/email"
	"github.com/Paul-trunc/DentalAppointments/model"
	"github.com/Paul-trunc/DentalAppointments/util"
	"gorm.io/gorm"
)

// window is a reminder lead time. The window for N hours covers the
// half-open interval ((N-1)h, Nh] before the appointment.
type window struct {
	Hours int
	Label string
}

var windows = []window{
	{24, model.Reminder24h},
	{16, model.Reminder16h},
	{8, model.Reminder8h},
	{1, model.Reminder1h},
}

// Scheduler sweeps upcoming appointments on a fixed cadence, independent of
// request traffic.
type Scheduler struct {
	db       *gorm.DB
	sender   email.Sender
	interval time.Duration
	stopChan chan struct{}
}

// New returns a Scheduler with the standard one-minute cadence.
func New(db *gorm.DB, sender email.Sender) *Scheduler {
	return &Scheduler{
		db:       db,
		sender:   sender,
		interval: time.Minute,
		stopChan: make(chan struct{}),
	}
}

// Start blocks, sweeping once per interval until the context is cancelled or
// Stop is called. Run it in its own goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("reminder scheduler started (sweep every %s)", s.interval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.Sweep(time.Now())
		}
	}
}

// Stop terminates the Start loop.
func (s *Scheduler) Stop() {
	close(s.stopChan)
}

// matchWindow returns the label of the lead-time window the remaining
// duration falls into. The windows are disjoint and one hour wide, so at
// most one can match.
func matchWindow(until time.Duration) (string, bool) {
	for _, w := range windows {
		upper := time.Duration(w.Hours) * time.Hour
		if until <= upper && until > upper-time.Hour {
			return w.Label, true
		}
	}
	return "", false
}

// windowDue reports whether the window was entered at some instant between
// the previous sweep and now. With a previous sweep one minute ago this is
// the plain membership test; after downtime it also covers windows the
// process slept through.
func windowDue(untilNow, untilPrev time.Duration, w window) bool {
	upper := time.Duration(w.Hours) * time.Hour
	return untilNow <= upper && untilPrev > upper-time.Hour
}

// Sweep runs one reminder pass at the given instant.
func (s *Scheduler) Sweep(now time.Time) {
	prev := s.lastSweep(now)

	// Appointments within the next 24 hours can only sit on today's or
	// tomorrow's date.
	today := now.Format("2006-01-02")
	tomorrow := now.Add(24 * time.Hour).Format("2006-01-02")

	var appointments []model.Appointment
	if err := s.db.Where("date IN ?", []string{today, tomorrow}).Find(&appointments).Error; err != nil {
		log.Printf("reminder sweep: fetching upcoming appointments: %v", err)
		return
	}

	for i := range appointments {
		a := &appointments[i]
		startsAt, err := a.StartsAt(now.Location())
		if err != nil {
			log.Printf("reminder sweep: appointment %d has malformed date/slot: %v", a.ID, err)
			continue
		}

		// Strictly between now and now+24h.
		until := startsAt.Sub(now)
		if until <= 0 || until >= 24*time.Hour {
			continue
		}
		untilPrev := startsAt.Sub(prev)

		for _, w := range windows {
			if windowDue(until, untilPrev, w) {
				s.remind(a, w.Label)
			}
		}
	}

	s.saveCheckpoint(now)
}

// remind sends one reminder for (appointment, label) unless a marker row
// already suppresses it. The marker is written only after a successful send.
func (s *Scheduler) remind(a *model.Appointment, label string) {
	var existing model.ReminderSent
	err := s.db.Where("appointment_id = ? AND reminder_type = ?", a.ID, label).First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("reminder sweep: checking marker for appointment %d: %v", a.ID, err)
		return
	}

	to, err := util.UserEmail(s.db, a.UserID)
	if err != nil {
		log.Printf("reminder sweep: user email not found for appointment %d: %v", a.ID, err)
		return
	}

	if s.sender == nil {
		log.Printf("reminder sweep: no mail sender configured, skipping %s reminder for appointment %d", label, a.ID)
		return
	}
	if err := s.sender.Send(to, email.ReminderSubject, email.ReminderBody(a.Date, a.TimeSlot)); err != nil {
		log.Printf("reminder sweep: sending %s reminder for appointment %d: %v", label, a.ID, err)
		return
	}

	marker := model.ReminderSent{AppointmentID: a.ID, ReminderType: label}
	if err := s.db.Create(&marker).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		log.Printf("reminder sweep: marking %s reminder sent for appointment %d: %v", label, a.ID, err)
	}
}

// lastSweep loads the persisted checkpoint. On first run there is nothing to
// catch up, so the previous sweep defaults to now.
func (s *Scheduler) lastSweep(now time.Time) time.Time {
	var cp model.ReminderCheckpoint
	if err := s.db.First(&cp).Error; err != nil || cp.SweptAt.IsZero() {
		return now
	}
	return cp.SweptAt
}

func (s *Scheduler) saveCheckpoint(now time.Time) {
	var cp model.ReminderCheckpoint
	err := s.db.First(&cp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.Create(&model.ReminderCheckpoint{SweptAt: now}).Error; err != nil {
			log.Printf("reminder sweep: creating checkpoint: %v", err)
		}
		return
	}
	if err != nil {
		log.Printf("reminder sweep: loading checkpoint: %v", err)
		return
	}

	cp.SweptAt = now
	if err := s.db.Save(&cp).Error; err != nil {
		log.Printf("reminder sweep: saving checkpoint: %v", err)
	}
}
