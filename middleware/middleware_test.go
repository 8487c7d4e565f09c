package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"basket-backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParser struct{}

func (fakeParser) ParseTenant(token string) (string, error) {
	if token == "good" {
		return "Ravi_9876543210", nil
	}
	return "", errors.New("bad token")
}

func (fakeParser) ParseAdmin(token string) (string, error) {
	if token == "admin" {
		return "vajra", nil
	}
	return "", errors.New("bad token")
}

func init() {
	gin.SetMode(gin.TestMode)
}

func tenantRouter() *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/cart", Tenant(fakeParser{}), func(c *gin.Context) {
		c.String(http.StatusOK, TenantFrom(c))
	})
	return r
}

func TestTenant(t *testing.T) {
	testCases := []struct {
		Name       string
		Header     string
		Query      string
		WantStatus int
		WantBody   string
		WantError  string
	}{
		{Name: "missing", WantStatus: http.StatusBadRequest, WantError: "Missing user DB (x-user-db)"},
		{Name: "invalid", Header: "Ravi_9876543210", WantStatus: http.StatusUnauthorized, WantError: "Invalid or expired user session"},
		{Name: "header", Header: "good", WantStatus: http.StatusOK, WantBody: "Ravi_9876543210"},
		{Name: "query fallback", Query: "good", WantStatus: http.StatusOK, WantBody: "Ravi_9876543210"},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			target := "/cart"
			if tc.Query != "" {
				target += "?userDb=" + tc.Query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tc.Header != "" {
				req.Header.Set(TenantHeader, tc.Header)
			}
			rec := httptest.NewRecorder()
			tenantRouter().ServeHTTP(rec, req)

			assert.Equal(t, tc.WantStatus, rec.Code)
			if tc.WantError != "" {
				var body response.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tc.WantError, body.Error)
				return
			}
			assert.Equal(t, tc.WantBody, rec.Body.String())
		})
	}
}

func TestAdminGuard(t *testing.T) {
	r := gin.New()
	r.GET("/admin", AdminGuard(fakeParser{}), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for header, want := range map[string]int{
		"":             http.StatusUnauthorized,
		"admin":        http.StatusUnauthorized,
		"Bearer nope":  http.StatusUnauthorized,
		"Bearer admin": http.StatusNoContent,
	} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, header)
	}
}

func TestRequestLogger_RequestID(t *testing.T) {
	r := tenantRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}
