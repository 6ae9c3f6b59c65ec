package util

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func runHelper(fn func(c *gin.Context)) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestCallSuccessOK(t *testing.T) {
	w := runHelper(func(c *gin.Context) {
		CallSuccessOK(c, APISuccessParams{Msg: "done", Data: []string{"a"}})
	})
	resp := decodeResponse(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "done", resp.Msg)
	assert.Empty(t, resp.Error)
}

func TestCallSuccessCreated(t *testing.T) {
	w := runHelper(func(c *gin.Context) {
		CallSuccessCreated(c, APISuccessParams{Msg: "created"})
	})
	resp := decodeResponse(t, w)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, resp.Success)
}

func TestErrorHelpersStatusCodes(t *testing.T) {
	cases := []struct {
		name string
		fn   func(c *gin.Context, p APIErrorParams)
		want int
	}{
		{"user error", CallUserError, http.StatusBadRequest},
		{"not found", CallErrorNotFound, http.StatusNotFound},
		{"server error", CallServerError, http.StatusInternalServerError},
		{"unauthorized", CallUserNotAuthorized, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := runHelper(func(c *gin.Context) {
				tc.fn(c, APIErrorParams{Msg: "nope", Err: fmt.Errorf("boom")})
			})
			resp := decodeResponse(t, w)
			assert.Equal(t, tc.want, w.Code)
			assert.False(t, resp.Success)
			assert.Equal(t, "nope", resp.Msg)
			assert.Equal(t, "boom", resp.Error)
		})
	}
}
