// Package email sends transactional e-mail through Resend.
//
// Bodies are HTML templates under templates/emails, rendered with
// html/template and the sprig function map.
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/deppfellow/restaurant-pos/internal/config"
)

// DefaultTemplateDir is resolved against the working directory.
const DefaultTemplateDir = "templates/emails"

type Client struct {
	client      *resend.Client
	logger      *zerolog.Logger
	from        string
	templateDir string
}

func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	return &Client{
		client:      resend.NewClient(cfg.Integration.ResendAPIKey),
		logger:      logger,
		from:        cfg.Integration.MailFrom,
		templateDir: DefaultTemplateDir,
	}
}

// WithTemplateDir returns a copy of c that reads templates from dir.
func (c *Client) WithTemplateDir(dir string) *Client {
	copied := *c
	copied.templateDir = dir
	return &copied
}

// Render executes the named template with data.
func (c *Client) Render(templateName Template, data any) (string, error) {
	tmplPath := filepath.Join(c.templateDir, string(templateName)+".html")

	tmpl, err := template.New(filepath.Base(tmplPath)).Funcs(sprig.FuncMap()).ParseFiles(tmplPath)
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse email template %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", templateName)
	}
	return body.String(), nil
}

// SendEmail renders templateName with data and sends it to one recipient.
func (c *Client) SendEmail(to, subject string, templateName Template, data any) error {
	html, err := c.Render(templateName, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	sent, err := c.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Debug().
		Str("template", string(templateName)).
		Str("email_id", sent.Id).
		Msg("email sent")

	return nil
}
