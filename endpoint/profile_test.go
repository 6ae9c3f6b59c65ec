package endpoint

import (
	"net/http"
	"testing"

	"github.com/Paul-trunc/DentalAppointments/model"
	"github.com/stretchr/testify/assert"
)

func TestGetProfile(t *testing.T) {
	db := newTestDB(t, "profile_get")
	r := newTestRouter(db)

	_, token := createTestUser(t, db, "Jane Doe", "jane@example.com", "password123")

	w := doRequest(r, http.MethodGet, "/api/users/profile", nil, token)
	assertStatus(t, w, http.StatusOK)

	resp := apiResp(t, w)
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected data payload: %#v", resp.Data)
	}
	assert.Equal(t, "Jane Doe", data["name"])
	assert.Equal(t, "jane@example.com", data["email"])
}

func TestGetProfileRequiresToken(t *testing.T) {
	db := newTestDB(t, "profile_noauth")
	r := newTestRouter(db)

	w := doRequest(r, http.MethodGet, "/api/users/profile", nil, "")
	assertStatus(t, w, http.StatusUnauthorized)
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t, "profile_update")
	r := newTestRouter(db)

	user, token := createTestUser(t, db, "Old Name", "old@example.com", "password123")

	w := doRequest(r, http.MethodPut, "/api/users/profile", UpdateProfileRequest{
		Name:  "New Name",
		Email: "new@example.com",
	}, token)
	assertStatus(t, w, http.StatusOK)
	assert.Equal(t, "Profile updated successfully", apiResp(t, w).Msg)

	var reloaded model.User
	if err := db.First(&reloaded, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	assert.Equal(t, "New Name", reloaded.FullName)
	assert.Equal(t, "new@example.com", reloaded.Email)

	// The profile read reflects the overwrite.
	w = doRequest(r, http.MethodGet, "/api/users/profile", nil, token)
	assertStatus(t, w, http.StatusOK)
	data := apiResp(t, w).Data.(map[string]interface{})
	assert.Equal(t, "New Name", data["name"])
}

func TestUpdateProfileRequiresName(t *testing.T) {
	db := newTestDB(t, "profile_noname")
	r := newTestRouter(db)

	_, token := createTestUser(t, db, "Keep Me", "keep@example.com", "password123")

	w := doRequest(r, http.MethodPut, "/api/users/profile", UpdateProfileRequest{
		Name:  "",
		Email: "changed@example.com",
	}, token)
	assertStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "Name is required", apiResp(t, w).Msg)
}
