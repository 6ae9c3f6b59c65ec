package endpoint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/Paul-trunc/DentalAppointments/middleware"
	"github.com/Paul-trunc/DentalAppointments/model"
	"github.com/Paul-trunc/DentalAppointments/util"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	os.Setenv("APPENV", "test")
	os.Setenv("JWTSECRET", "endpoint-test-secret")
	util.SetJWTSecret("endpoint-test-secret")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// newTestDB opens a named shared in-memory sqlite database with the full
// schema and the dentist seed data.
func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.User{}, &model.Dentist{}, &model.Appointment{},
		&model.ReminderSent{}, &model.ReminderCheckpoint{}, &model.SecurityLog{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	if err := model.SeedDentists(db); err != nil {
		t.Fatalf("seed dentists: %v", err)
	}
	return db
}

// newTestRouter wires the API routes the way the server does, minus the rate
// limiter.
func newTestRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))

	api := r.Group("/api")
	{
		api.POST("/auth/signup", Signup)
		api.POST("/auth/login", Login)

		api.GET("/dentists", ListDentists)
		api.GET("/dentists/:id/slots", ListDentistSlots)

		api.POST("/appointments/unauthenticated", CreateUnauthenticatedAppointment)
		api.PUT("/appointments/:id", UpdateAppointment)
		api.DELETE("/appointments/:id", DeleteAppointment)

		auth := api.Group("")
		auth.Use(middleware.ValidateLoginToken())
		{
			auth.POST("/appointments", CreateAppointment)
			auth.GET("/appointments/my", ListMyAppointments)
			auth.GET("/appointments/test-email", TestEmail)
			auth.GET("/users/profile", GetProfile)
			auth.PUT("/users/profile", UpdateProfile)
		}
	}
	return r
}

// createTestUser inserts a user directly and returns it with a valid token.
func createTestUser(t *testing.T, db *gorm.DB, name, email, password string) (model.User, string) {
	t.Helper()
	hash, err := util.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := model.User{FullName: name, Email: email, PasswordHash: hash}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() { util.InvalidateUserEmail(user.ID) })

	token, err := createLoginToken(&user)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	return user, token
}

func doRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func apiResp(t *testing.T, w *httptest.ResponseRecorder) util.APIResponse {
	t.Helper()
	var resp util.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return resp
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, want, w.Body.String())
	}
}
