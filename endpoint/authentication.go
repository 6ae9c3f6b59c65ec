package endpoint

import (
	"errors"
	"fmt"
	"time"

	"github.com/Paul-trunc/DentalAppointments/model"
	"github.com/Paul-trunc/DentalAppointments/util"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type SignupRequest struct {
	Name     string `json:"name" binding:"required" example:"John Doe"`
	Email    string `json:"email" binding:"required,email" example:"john@example.com"`
	Password string `json:"password" binding:"required,min=7" example:"password123"`
}

type AuthUser struct {
	ID    uint   `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

// createLoginToken issues the HMAC-signed bearer token carrying the user
// identity. Tokens expire after one hour.
func createLoginToken(user *model.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"exp":   time.Now().Add(time.Hour * 1).Unix(),
	})
	return token.SignedString(util.GetJWTSecretByte())
}

// ensureEmailAvailable rejects signup when the email is already registered.
func ensureEmailAvailable(c *gin.Context, db *gorm.DB, email string) bool {
	var existing model.User
	err := db.Where("email = ?", email).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true
	}
	if err == nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "User already exists.",
			Err: fmt.Errorf("email already registered"),
		})
		return false
	}
	util.CallServerError(c, util.APIErrorParams{Msg: "Database error", Err: err})
	return false
}

// Signup godoc
// @Summary      User signup
// @Description  Register a new patient account
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Signup details"
// @Success      201 {object} util.APIResponse{data=AuthResponse} "Signup successful"
// @Failure      400 {object} util.APIResponse "Invalid request or email already exists"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /auth/signup [post]
func Signup(c *gin.Context) {
	var req SignupRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := ensureDB(c)
	if !ok {
		return
	}

	if !ensureEmailAvailable(c, db, req.Email) {
		return
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to hash password", Err: err})
		return
	}

	user := model.User{
		FullName:     req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := db.Create(&user).Error; err != nil {
		// The unique index on email catches a signup race the pre-check missed.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.CallUserError(c, util.APIErrorParams{
				Msg: "User already exists.",
				Err: fmt.Errorf("email already registered"),
			})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Error saving user.", Err: err})
		return
	}

	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventSignupSuccess,
		UserID:    fmt.Sprintf("%d", user.ID),
		Email:     user.Email,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Message:   "User signed up successfully",
	})

	token, err := createLoginToken(&user)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Could not generate token", Err: err})
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{
		Msg: "Signup successful",
		Data: AuthResponse{
			Token: token,
			User:  AuthUser{Name: user.FullName, Email: user.Email},
		},
	})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"john@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// Login godoc
// @Summary      User login
// @Description  Authenticate a patient with email and password
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} util.APIResponse{data=AuthResponse} "Login successful"
// @Failure      400 {object} util.APIResponse "Invalid credentials"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /auth/login [post]
func Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := ensureDB(c)
	if !ok {
		return
	}

	// A missing user and a wrong password must be indistinguishable to the
	// caller, so both paths share one response.
	var user model.User
	err := db.Where("email = ?", req.Email).First(&user).Error
	if err != nil || !util.VerifyPassword(req.Password, user.PasswordHash) {
		reason := "invalid password"
		if err != nil {
			reason = "user not found"
		}
		util.LogLoginFailure(req.Email, c.ClientIP(), c.Request.UserAgent(), reason)
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid email or password.",
			Err: fmt.Errorf("invalid credentials"),
		})
		return
	}

	token, err := createLoginToken(&user)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Could not generate token", Err: err})
		return
	}

	util.LogLoginSuccess(user.ID, user.Email, c.ClientIP(), c.Request.UserAgent())
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Login successful",
		Data: AuthResponse{
			Token: token,
			User:  AuthUser{ID: user.ID, Name: user.FullName, Email: user.Email},
		},
	})
}
