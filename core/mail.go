package core

import (
	"bytes"
	htmltmpl "html/template"
	"net/mail"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

type (
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		TextTemplate string
		HTMLTemplate string
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	ContextData struct {
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

func (m *EmailMessage) renderText(ctxData ContextData) error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	} else if m.TextTemplate == "" {
		return nil
	}

	tmpl, err := texttmpl.New("text").Option("missingkey=error").Parse(m.TextTemplate)
	if err != nil {
		return errors.Wrap(err, "parsing text template")
	}
	var buff bytes.Buffer
	if err := tmpl.Execute(&buff, ctxData); err != nil {
		return errors.Wrap(err, "executing text template")
	}
	m.TextContent = buff.String()
	return nil
}

func (m *EmailMessage) renderHTML(ctxData ContextData) error {
	if m.HTMLTemplate == "" {
		return nil
	}

	tmpl, err := htmltmpl.New("html").Option("missingkey=error").Parse(m.HTMLTemplate)
	if err != nil {
		return errors.Wrap(err, "parsing html template")
	}
	var buff bytes.Buffer
	if err := tmpl.Execute(&buff, ctxData); err != nil {
		return errors.Wrap(err, "executing html template")
	}
	m.HTMLContent = buff.String()
	return nil
}

// Render fills TextContent and HTMLContent.
func (m *EmailMessage) Render(frontendBaseURL string) error {
	ctxData := ContextData{FrontendBaseURL: frontendBaseURL, Data: m.TemplateData}
	if err := m.renderText(ctxData); err != nil {
		return err
	}
	return m.renderHTML(ctxData)
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return (m.TextContent != "") || (m.HTMLContent != "") }
