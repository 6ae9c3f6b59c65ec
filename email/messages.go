package email

import "fmt"

// Subjects and bodies for the three messages the clinic sends.
const (
	ConfirmationSubject = "Appointment Confirmation"
	ReminderSubject     = "Upcoming Appointment Reminder"
	TestSubject         = "Test Email from Dental App"

	TestBody = "This is a test email sent to your account."
)

// ConfirmationBody is the booking confirmation text.
func ConfirmationBody(date, timeSlot string) string {
	return fmt.Sprintf("Your appointment is confirmed on %s at %s.", date, timeSlot)
}

// ReminderBody is the upcoming-appointment reminder text.
func ReminderBody(date, timeSlot string) string {
	return fmt.Sprintf("Reminder: You have an appointment on %s at %s.", date, timeSlot)
}
