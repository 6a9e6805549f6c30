package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ghostmedia/backend/internal/service"

	"github.com/gin-gonic/gin"
)

func TestRespondErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		wantCode   int
		wantError  string
		wantStatus string
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound, "Not found", ""},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, "Not authorized", ""},
		{"bad request", &service.BadRequestError{Reason: "Invalid action"}, http.StatusBadRequest, "Invalid action", ""},
		{"conflict", &service.ConflictError{Status: "pending", Message: "Friend request already sent"}, http.StatusConflict, "Friend request already sent", "pending"},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError, "Server error", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tc.err)

			if w.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, w.Code)
			}
			var body ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal body: %v", err)
			}
			if body.Error != tc.wantError {
				t.Fatalf("expected error %q, got %q", tc.wantError, body.Error)
			}
			if body.Status != tc.wantStatus {
				t.Fatalf("expected status %q, got %q", tc.wantStatus, body.Status)
			}
		})
	}
}

func TestPageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 10},
		{"page=3&limit=25", 3, 25},
		{"page=0&limit=-5", 1, 10},
		{"page=abc&limit=xyz", 1, 10},
		{"limit=500", 1, 100},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)

		page, limit := pageParams(c)
		if page != tc.wantPage || limit != tc.wantLimit {
			t.Fatalf("query %q: expected (%d, %d), got (%d, %d)", tc.query, tc.wantPage, tc.wantLimit, page, limit)
		}
	}
}
