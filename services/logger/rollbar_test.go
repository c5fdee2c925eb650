package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/session"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Env: "TEST", Debug: true})

	logger.Error("Failed to load course", errors.New("connection refused"), session.Identity{UserID: 3, Email: "jane@example.com"})
	logger.Info("Course loaded", map[string]interface{}{"enrollment": "E1"})
	logger.Warn("Login failed", map[string]interface{}{"email": "jane@example.com", "Password": "hunter22", "access_token": "eyJ"})

	out := buf.String()
	assert.Contains(t, out, "[ERROR] Failed to load course")
	assert.Contains(t, out, "connection refused")
	assert.Contains(t, out, "[INFO] Course loaded")
	assert.Contains(t, out, "enrollment:E1")
	assert.Contains(t, out, "user: 3")
	assert.Contains(t, out, "[WARN] Login failed")
	assert.Contains(t, out, "Password:********")
	assert.NotContains(t, out, "hunter22")
	assert.NotContains(t, out, "eyJ")
}
