package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelsec/warden/internal/gate"
)

func admissionRouter(t *testing.T, cfg gate.Config) (*gin.Engine, *gate.Gate) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	g := gate.New()
	require.NoError(t, g.Initialize(cfg))

	router := gin.New()
	router.Use(Admission(g, nil))
	router.POST("/validate", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router, g
}

func doRequest(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/validate", nil)
	req.RemoteAddr = "10.1.2.3:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAdmission_AllowsUnderLimit(t *testing.T) {
	router, _ := admissionRouter(t, gate.Config{MaxRequests: 3, Window: time.Minute})

	for i := 0; i < 3; i++ {
		w := doRequest(router)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestAdmission_RejectsOverLimit(t *testing.T) {
	router, _ := admissionRouter(t, gate.Config{MaxRequests: 1, Window: time.Minute})

	assert.Equal(t, http.StatusOK, doRequest(router).Code)

	w := doRequest(router)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestAdmission_EscalatesToBlock(t *testing.T) {
	router, g := admissionRouter(t, gate.Config{MaxRequests: 1, Window: time.Minute})

	assert.Equal(t, http.StatusOK, doRequest(router).Code)

	// Keep hammering: after blockAfterStrikes consecutive rejections the
	// identifier is blocked and subsequent requests are refused outright.
	for i := 0; i < blockAfterStrikes; i++ {
		assert.Equal(t, http.StatusTooManyRequests, doRequest(router).Code)
	}
	assert.True(t, g.IsBlocked("10.1.2.3"))
	assert.Equal(t, http.StatusForbidden, doRequest(router).Code)
}

func TestAdmission_BlockListIsAuthoritative(t *testing.T) {
	router, g := admissionRouter(t, gate.Config{MaxRequests: 100, Window: time.Minute})

	// Plenty of window budget left, but a manual block still rejects.
	g.BlockIdentifier("10.1.2.3", "manual")
	assert.Equal(t, http.StatusForbidden, doRequest(router).Code)
}
