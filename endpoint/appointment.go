package endpoint

import (
	"errors"
	"fmt"
	"log"

	"github.com/Paul-trunc/DentalAppointments/email"
	"github.com/Paul-trunc/DentalAppointments/model"
	"github.com/Paul-trunc/DentalAppointments/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BookAppointmentRequest struct {
	DentistID uint   `json:"dentist_id" binding:"required" example:"3"`
	Date      string `json:"date" binding:"required" example:"2025-05-01"`
	TimeSlot  string `json:"time_slot" binding:"required" example:"10:00"`
}

type UnauthenticatedBookRequest struct {
	BookAppointmentRequest
	UserID uint `json:"user_id" example:"1"`
}

// sendConfirmationEmail delivers the booking confirmation in the background.
// Failures never roll back the booking; they are only logged.
func sendConfirmationEmail(db *gorm.DB, userID uint, date, timeSlot string) {
	to, err := util.UserEmail(db, userID)
	if err != nil {
		log.Printf("confirmation email: user email not found for user %d: %v", userID, err)
		return
	}
	if mailer == nil {
		log.Printf("confirmation email: no mail sender configured, skipping send to %s", to)
		return
	}
	if err := mailer.Send(to, email.ConfirmationSubject, email.ConfirmationBody(date, timeSlot)); err != nil {
		log.Printf("confirmation email: sending to %s: %v", to, err)
	}
}

// bookSlot runs the shared booking protocol: friendly conflict pre-check,
// insert, async confirmation. The composite unique index on
// (dentist_id, date, time_slot) closes the race the pre-check leaves open,
// so a concurrent duplicate insert surfaces as the same conflict response.
func bookSlot(c *gin.Context, db *gorm.DB, userID uint, req BookAppointmentRequest) {
	var count int64
	err := db.Model(&model.Appointment{}).
		Where("dentist_id = ? AND date = ? AND time_slot = ?", req.DentistID, req.Date, req.TimeSlot).
		Count(&count).Error
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Booking failed.", Err: err})
		return
	}
	if count > 0 {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Time slot already booked.",
			Err: fmt.Errorf("slot conflict"),
		})
		return
	}

	appointment := model.Appointment{
		UserID:    userID,
		DentistID: req.DentistID,
		Date:      req.Date,
		TimeSlot:  req.TimeSlot,
	}
	if err := db.Create(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.CallUserError(c, util.APIErrorParams{
				Msg: "Time slot already booked.",
				Err: fmt.Errorf("slot conflict"),
			})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Booking failed.", Err: err})
		return
	}

	go sendConfirmationEmail(db, userID, req.Date, req.TimeSlot)

	util.CallSuccessCreated(c, util.APISuccessParams{
		Msg:  "Appointment booked successfully.",
		Data: appointment,
	})
}

// CreateAppointment godoc
// @Summary      Book an appointment
// @Description  Book a slot for the authenticated patient
// @Tags         Appointment
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body BookAppointmentRequest true "Booking details"
// @Success      201 {object} util.APIResponse{data=model.Appointment} "Appointment booked"
// @Failure      400 {object} util.APIResponse "Invalid request or slot already booked"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /appointments [post]
func CreateAppointment(c *gin.Context) {
	var req BookAppointmentRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := ensureDB(c)
	if !ok {
		return
	}

	userID, ok := ensureAuthenticated(c)
	if !ok {
		return
	}

	bookSlot(c, db, userID, req)
}

// CreateUnauthenticatedAppointment godoc
// @Summary      Book an appointment without logging in
// @Description  Book a slot with a client-supplied user id
// @Tags         Appointment
// @Accept       json
// @Produce      json
// @Param        request body UnauthenticatedBookRequest true "Booking details"
// @Success      201 {object} util.APIResponse{data=model.Appointment} "Appointment booked"
// @Failure      400 {object} util.APIResponse "Invalid request or slot already booked"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /appointments/unauthenticated [post]
func CreateUnauthenticatedAppointment(c *gin.Context) {
	var req UnauthenticatedBookRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	if req.UserID == 0 {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "User ID is required.",
			Err: fmt.Errorf("user_id missing"),
		})
		return
	}

	db, ok := ensureDB(c)
	if !ok {
		return
	}

	bookSlot(c, db, req.UserID, req.BookAppointmentRequest)
}

// MyAppointment is an appointment row joined with the dentist's name.
type MyAppointment struct {
	model.Appointment
	DentistName string `json:"dentist_name"`
}

// ListMyAppointments godoc
// @Summary      List the caller's appointments
// @Description  Get the authenticated patient's appointments with dentist names, ordered by date
// @Tags         Appointment
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=[]MyAppointment} "Appointments retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /appointments/my [get]
func ListMyAppointments(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}

	userID, ok := ensureAuthenticated(c)
	if !ok {
		return
	}

	var appointments []MyAppointment
	err := db.Table("appointments").
		Select("appointments.*, dentists.name AS dentist_name").
		Joins("JOIN dentists ON appointments.dentist_id = dentists.id").
		Where("appointments.user_id = ?", userID).
		Order("appointments.date").
		Scan(&appointments).Error
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Error loading appointments.",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Appointments retrieved",
		Data: appointments,
	})
}

type UpdateAppointmentRequest struct {
	TimeSlot string `json:"time_slot" example:"11:00"`
}

// UpdateAppointment godoc
// @Summary      Reschedule an appointment
// @Description  Change an appointment's time slot
// @Tags         Appointment
// @Accept       json
// @Produce      json
// @Param        id path string true "Appointment ID"
// @Param        request body UpdateAppointmentRequest true "New time slot"
// @Success      200 {object} util.APIResponse "Appointment updated"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /appointments/{id} [put]
func UpdateAppointment(c *gin.Context) {
	id, ok := getIDParam(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := ensureDB(c)
	if !ok {
		return
	}

	err := db.Model(&model.Appointment{}).
		Where("id = ?", id).
		Update("time_slot", req.TimeSlot).Error
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Update failed.", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Appointment updated successfully.",
	})
}

// DeleteAppointment godoc
// @Summary      Cancel an appointment
// @Description  Delete an appointment by ID, freeing its slot
// @Tags         Appointment
// @Produce      json
// @Param        id path string true "Appointment ID"
// @Success      200 {object} util.APIResponse "Appointment deleted"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /appointments/{id} [delete]
func DeleteAppointment(c *gin.Context) {
	id, ok := getIDParam(c)
	if !ok {
		return
	}

	db, ok := ensureDB(c)
	if !ok {
		return
	}

	if err := db.Delete(&model.Appointment{}, id).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Delete failed.", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Appointment deleted successfully.",
	})
}

// TestEmail godoc
// @Summary      Send a test email
// @Description  Send a test email to the authenticated patient's address
// @Tags         Appointment
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse "Test email sent"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "User email not found"
// @Router       /appointments/test-email [get]
func TestEmail(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}

	userID, ok := ensureAuthenticated(c)
	if !ok {
		return
	}

	to, err := util.UserEmail(db, userID)
	if err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: "User email not found.",
			Err: err,
		})
		return
	}

	go func() {
		if mailer == nil {
			log.Printf("test email: no mail sender configured, skipping send to %s", to)
			return
		}
		if err := mailer.Send(to, email.TestSubject, email.TestBody); err != nil {
			log.Printf("test email: sending to %s: %v", to, err)
		}
	}()

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: fmt.Sprintf("Test email sent to %s", to),
	})
}
