package endpoint

import (
	"github.com/Paul-trunc/DentalAppointments/model"
	"github.com/Paul-trunc/DentalAppointments/util"
	"github.com/gin-gonic/gin"
)

// ListDentists godoc
// @Summary      List all dentists
// @Description  Get the clinic's dentists and their specializations
// @Tags         Dentist
// @Produce      json
// @Success      200 {object} util.APIResponse{data=[]model.Dentist} "Dentists retrieved"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /dentists [get]
func ListDentists(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}

	var dentists []model.Dentist
	if err := db.Find(&dentists).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Error fetching dentists.",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Dentists retrieved",
		Data: dentists,
	})
}

// ListDentistSlots godoc
// @Summary      List available time slots
// @Description  Get the free slots for a dentist on a given date, in the fixed daily order
// @Tags         Dentist
// @Produce      json
// @Param        id path string true "Dentist ID"
// @Param        date query string true "Date (YYYY-MM-DD)"
// @Success      200 {object} util.APIResponse{data=[]string} "Available slots"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /dentists/{id}/slots [get]
func ListDentistSlots(c *gin.Context) {
	dentistID := c.Param("id")
	date := c.Query("date")

	db, ok := ensureDB(c)
	if !ok {
		return
	}

	var booked []string
	err := db.Model(&model.Appointment{}).
		Where("dentist_id = ? AND date = ?", dentistID, date).
		Pluck("time_slot", &booked).Error
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Error fetching slots.",
			Err: err,
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Available slots retrieved",
		Data: model.AvailableSlots(booked),
	})
}
