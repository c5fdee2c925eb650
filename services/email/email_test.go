package emailsvc

import (
	"bytes"
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-portal/core"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func TestConsoleService(t *testing.T) {
	conf := &core.Config{
		AppName:          "Masomo",
		TestMode:         true,
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Name: "Masomo", Address: "noreply@localhost"},
	}
	var out bytes.Buffer
	svc := NewConsoleService(conf, &out, nopLogger{})

	svc.SendMessages(
		&core.EmailMessage{
			To:           []mail.Address{{Name: "Jane", Address: "jane@example.com"}},
			Subject:      "Password Reset",
			TextTemplate: "{{.FrontendBaseURL}}/create-new-password/?otp={{.Data.OTP}}",
			TemplateData: map[string]string{"OTP": "123456"},
		},
		&core.EmailMessage{Subject: "nobody", BodyStr: "dropped"},
	)

	sent := svc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "http://localhost:3000/create-new-password/?otp=123456", sent[0].TextContent)
	assert.Contains(t, out.String(), "Subject: [Masomo] Password Reset")
	assert.Contains(t, out.String(), `To: "Jane" <jane@example.com>`)
	assert.NotContains(t, out.String(), "dropped")
}

func TestNewService(t *testing.T) {
	conf := &core.Config{TestMode: true, SendgridAPIKey: "key"}
	_, ok := NewService(conf, nopLogger{}).(*ConsoleService)
	assert.True(t, ok)

	conf.TestMode = false
	_, ok = NewService(conf, nopLogger{}).(*SendgridService)
	assert.True(t, ok)
}
