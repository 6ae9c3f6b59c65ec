package endpoint

import (
	"errors"
	"fmt"

	"github.com/Paul-trunc/DentalAppointments/model"
	"github.com/Paul-trunc/DentalAppointments/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProfileResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// GetProfile godoc
// @Summary      Get the caller's profile
// @Description  Return the authenticated patient's name and email
// @Tags         Profile
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=ProfileResponse} "Profile retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "User not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /users/profile [get]
func GetProfile(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}

	userID, ok := ensureAuthenticated(c)
	if !ok {
		return
	}

	var user model.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.CallErrorNotFound(c, util.APIErrorParams{
				Msg: "User not found",
				Err: err,
			})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Server error", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Profile retrieved",
		Data: ProfileResponse{Name: user.FullName, Email: user.Email},
	})
}

type UpdateProfileRequest struct {
	Name  string `json:"name" example:"John Doe"`
	Email string `json:"email" example:"john@example.com"`
}

// UpdateProfile godoc
// @Summary      Update the caller's profile
// @Description  Overwrite the authenticated patient's name and email
// @Tags         Profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateProfileRequest true "New profile values"
// @Success      200 {object} util.APIResponse "Profile updated"
// @Failure      400 {object} util.APIResponse "Name is required"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /users/profile [put]
func UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	if req.Name == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Name is required",
			Err: fmt.Errorf("name cannot be empty"),
		})
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

	err := db.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"full_name": req.Name,
			"email":     req.Email,
		}).Error
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Server error", Err: err})
		return
	}

	// Reminder and confirmation sends resolve addresses through the cache.
	util.InvalidateUserEmail(userID)

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Profile updated successfully",
	})
}
