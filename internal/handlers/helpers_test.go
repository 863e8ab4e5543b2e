package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	portssvc "github.com/SscSPs/shop_ledger_backend/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger_backend/internal/handlers"
	"github.com/SscSPs/shop_ledger_backend/internal/middleware"
	"github.com/SscSPs/shop_ledger_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testJWTSecret = "test-secret-key-that-is-long-enough"
	testTenant    = "tenant-1"
	testUser      = "user-1"
)

// generateTestToken creates a signed JWT for userID acting for tenantID.
func generateTestToken(t *testing.T, userID, tenantID string) string {
	t.Helper()
	claims := middleware.Claims{
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "shop-ledger-test",
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err, "Failed to sign test token")
	return signed
}

func newTestRouter(services *portssvc.ServiceContainer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers.RegisterRoutes(router, &config.Config{JWTSecret: testJWTSecret}, services, nil)
	return router
}

// doRequest serves a request with an optional JSON body and bearer token.
func doRequest(router http.Handler, method, url string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewBuffer(raw)
	}
	req, _ := http.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "Failed to unmarshal response body: %s", w.Body.String())
}
