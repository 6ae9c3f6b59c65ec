package endpoint

import (
	"fmt"

	"github.com/Paul-trunc/DentalAppointments/email"
	"github.com/Paul-trunc/DentalAppointments/middleware"
	"github.com/Paul-trunc/DentalAppointments/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// mailer is the outgoing email collaborator. It stays nil when SMTP is not
// configured; sends are then skipped with a log entry.
var mailer email.Sender

// SetMailer injects the email sender used by booking confirmations and the
// test-email endpoint. Call during startup, or from tests with a fake.
func SetMailer(s email.Sender) {
	mailer = s
}

// bindJSONOrRespond binds the request body into dst, responding with a user
// error when the payload is malformed or fails validation.
func bindJSONOrRespond(c *gin.Context, dst interface{}, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
		return false
	}
	return true
}

// ensureDB fetches the injected DB handle or responds with a server error.
func ensureDB(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return nil, false
	}
	return db, true
}

// ensureAuthenticated fetches the user id set by the token middleware.
func ensureAuthenticated(c *gin.Context) (uint, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "User not authenticated",
			Err: fmt.Errorf("user id not found in context"),
		})
		return 0, false
	}
	return userID, true
}

// getIDParam reads and validates the :id path parameter.
func getIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if id == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Missing appointment ID",
			Err: fmt.Errorf("appointment ID is required"),
		})
		return "", false
	}
	return id, true
}
