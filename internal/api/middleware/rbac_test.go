package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func invokeRBAC(role string, allowed ...string) error {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	return RequireRole(allowed...)(next)(c)
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name    string
		role    string
		allowed []string
		wantErr bool
	}{
		{"allowed role passes", "organizer", []string{"organizer"}, false},
		{"one of several", "attendee", []string{"organizer", "attendee"}, false},
		{"wrong role rejected", "attendee", []string{"organizer"}, true},
		{"missing role rejected", "", []string{"organizer"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := invokeRBAC(tc.role, tc.allowed...)
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			he, ok := err.(*echo.HTTPError)
			if !ok || he.Code != http.StatusForbidden {
				t.Fatalf("err = %v, want 403", err)
			}
		})
	}
}
