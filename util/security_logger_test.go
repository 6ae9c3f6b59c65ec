package util

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/Paul-trunc/DentalAppointments/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestLogger captures security log output for assertions and returns a
// cleanup function restoring the original logger.
func setupTestLogger() (*bytes.Buffer, func()) {
	buf := &bytes.Buffer{}
	originalLogger := securityLogger
	securityLogger = log.New(buf, "[SECURITY] ", log.LstdFlags|log.Lmsgprefix)
	cleanup := func() {
		securityLogger = originalLogger
	}
	return buf, cleanup
}

func assertLogContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("Log output missing expected substring %q\nGot: %s", want, output)
		}
	}
}

func TestSanitizeLogValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"removes newlines", "hello\nworld", "hello world"},
		{"removes carriage returns", "hello\rworld", "hello world"},
		{"removes tabs", "hello\tworld", "hello world"},
		{"truncates long values", strings.Repeat("a", 250), strings.Repeat("a", 200) + "..."},
		{"handles normal strings", "normal string", "normal string"},
		{"handles empty string", "", ""},
		{"combines multiple issues", "line1\nline2\rline3\ttab", "line1 line2 line3 tab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeLogValue(tt.input); got != tt.expected {
				t.Errorf("sanitizeLogValue() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestLogSecurityEventBasic(t *testing.T) {
	buf, cleanup := setupTestLogger()
	defer cleanup()

	LogSecurityEvent(SecurityEvent{
		EventType: EventLoginSuccess,
		UserID:    "123",
		Email:     "user@example.com",
		IP:        "192.168.1.1",
		UserAgent: "Mozilla/5.0",
		Message:   "Login successful",
	})

	assertLogContains(t, buf.String(), []string{
		"Event=LOGIN_SUCCESS",
		"UserID=123",
		"Email=user@example.com",
		"IP=192.168.1.1",
		"UserAgent=Mozilla/5.0",
		"Message=Login successful",
	})
}

func TestLogSecurityEventSanitization(t *testing.T) {
	buf, cleanup := setupTestLogger()
	defer cleanup()

	LogSecurityEvent(SecurityEvent{
		EventType: EventLoginFailure,
		Email:     "user@example.com",
		IP:        "192.168.1.2",
		Message:   "Failed\nlogin\rattempt",
	})

	assertLogContains(t, buf.String(), []string{
		"Event=LOGIN_FAILURE",
		"Message=Failed login attempt",
	})
}

func TestLogSecurityEventWithDetails(t *testing.T) {
	buf, cleanup := setupTestLogger()
	defer cleanup()

	LogSecurityEvent(SecurityEvent{
		EventType: EventSuspiciousActivity,
		IP:        "10.0.0.1",
		Message:   "Suspicious activity detected",
		Details: map[string]interface{}{
			"reason": "multiple IPs",
			"count":  5,
		},
	})

	assertLogContains(t, buf.String(), []string{
		"Event=SUSPICIOUS_ACTIVITY",
		"DetailsCount=2",
	})
}

func TestLoginAndRateLimitLogging(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func()
		contains []string
	}{
		{
			name:    "LogLoginSuccess",
			logFunc: func() { LogLoginSuccess(123, "user@example.com", "192.168.1.1", "Mozilla/5.0") },
			contains: []string{
				"Event=LOGIN_SUCCESS",
				"UserID=123",
				"Email=user@example.com",
				"Message=User logged in successfully",
			},
		},
		{
			name:    "LogLoginFailure",
			logFunc: func() { LogLoginFailure("user@example.com", "192.168.1.1", "Mozilla/5.0", "invalid password") },
			contains: []string{
				"Event=LOGIN_FAILURE",
				"Email=user@example.com",
				"Message=Login failed: invalid password",
			},
		},
		{
			name:    "LogRateLimitExceeded",
			logFunc: func() { LogRateLimitExceeded("192.168.1.5", "/api/auth/login") },
			contains: []string{
				"Event=RATE_LIMIT_EXCEEDED",
				"IP=192.168.1.5",
				"Message=Rate limit exceeded on /api/auth/login",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, cleanup := setupTestLogger()
			defer cleanup()

			tt.logFunc()
			assertLogContains(t, buf.String(), tt.contains)
		})
	}
}

func TestLogSecurityEventPersistsToDB(t *testing.T) {
	_, cleanup := setupTestLogger()
	defer cleanup()

	db, err := gorm.Open(sqlite.Open("file:seclog_test?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&model.SecurityLog{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	SetSecurityLoggerDB(db)
	defer SetSecurityLoggerDB(nil)

	LogSecurityEvent(SecurityEvent{
		EventType: EventSignupSuccess,
		UserID:    "7",
		Email:     "new@example.com",
		IP:        "192.168.1.9",
		Message:   "User signed up successfully",
		Details:   map[string]interface{}{"source": "api"},
	})

	var entries []model.SecurityLog
	if err := db.Find(&entries).Error; err != nil {
		t.Fatalf("load security logs: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d security log rows, want 1", len(entries))
	}
	entry := entries[0]
	if entry.EventType != string(EventSignupSuccess) {
		t.Errorf("EventType = %q, want %q", entry.EventType, EventSignupSuccess)
	}
	if entry.Email != "new@example.com" {
		t.Errorf("Email = %q, want %q", entry.Email, "new@example.com")
	}
	if len(entry.Details) == 0 {
		t.Error("Details not persisted")
	}
}
