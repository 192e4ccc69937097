package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://app.swamp.edu"})

	req := httptest.NewRequest("GET", "/ws", nil)
	req.Header.Set("Origin", "https://app.swamp.edu")
	assert.True(t, check(req))

	req = httptest.NewRequest("GET", "/ws", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, check(req))

	// Non-browser dials carry no Origin header
	req = httptest.NewRequest("GET", "/ws", nil)
	assert.True(t, check(req))

	// Empty and wildcard configurations admit any origin
	req = httptest.NewRequest("GET", "/ws", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	assert.True(t, originChecker(nil)(req))
	assert.True(t, originChecker([]string{"*"})(req))
}
