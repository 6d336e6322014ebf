package middleware

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer secret-token")
	h.Set("Cookie", "session=abc")
	h.Set("X-Api-Key", "key-123")
	h.Set("User-Agent", "curl/8.0\r\ninjected: yes")

	out := SanitizeHeaders(h)

	assert.Equal(t, []string{"<redacted>"}, out["Authorization"])
	assert.Equal(t, []string{"<redacted>"}, out["Cookie"])
	assert.Equal(t, []string{"<redacted>"}, out["X-Api-Key"])
	assert.Equal(t, []string{"curl/8.0 injected: yes"}, out["User-Agent"])
}

func TestSanitizeHeadersNil(t *testing.T) {
	assert.Nil(t, SanitizeHeaders(nil))
}

func TestSanitizePath(t *testing.T) {
	assert.Equal(t, "/api/v1/validate/input", SanitizePath("/api/v1/validate/input?token=secret"))
	assert.Equal(t, "/a b", SanitizePath("/a\nb"))
}
