package restapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestContext(req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func TestVerifyDevEnvBypassesAuth(t *testing.T) {
	t.Setenv("DISPATCH_ENV", "DEV")
	req := httptest.NewRequest(http.MethodGet, "/ops", nil)
	c, _ := newTestContext(req)
	require.True(t, verify(c))
}

func TestVerifyQAEnvChecksSharedToken(t *testing.T) {
	t.Setenv("DISPATCH_ENV", "QA")
	t.Setenv("DISPATCH_QA_TOKEN", "qa-secret")

	good := httptest.NewRequest(http.MethodGet, "/ops", nil)
	good.Header.Set("Authorization", "Bearer qa-secret")
	c, _ := newTestContext(good)
	require.True(t, verify(c))

	bad := httptest.NewRequest(http.MethodGet, "/ops", nil)
	bad.Header.Set("Authorization", "Bearer wrong")
	c2, _ := newTestContext(bad)
	require.False(t, verify(c2))
}

func TestVerifyRejectsMissingBearerPrefix(t *testing.T) {
	t.Setenv("DISPATCH_ENV", "QA")
	req := httptest.NewRequest(http.MethodGet, "/ops", nil)
	req.Header.Set("Authorization", "qa-secret")
	c, _ := newTestContext(req)
	require.False(t, verify(c))
}
