package email

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/restaurant-pos/internal/config"
)

func newTestClient() *Client {
	logger := zerolog.Nop()
	cfg := &config.Config{Integration: config.IntegrationConfig{MailFrom: "POS <pos@example.com>"}}
	return NewClient(cfg, &logger).WithTemplateDir("../../../templates/emails")
}

func TestRender_Receipt(t *testing.T) {
	html, err := newTestClient().Render(TemplateReceipt, PreviewData[TemplateReceipt])
	require.NoError(t, err)

	assert.Contains(t, html, "Receipt #42")
	assert.Contains(t, html, "TABLE 3")
	assert.Contains(t, html, "Beef noodle soup")
	assert.Contains(t, html, "Discount: 10%")
	assert.Contains(t, html, "Subtotal: 26.50")
	assert.Contains(t, html, "Total: 23.85")
}

func TestRender_DailyReport(t *testing.T) {
	html, err := newTestClient().Render(TemplateDailyReport, PreviewData[TemplateDailyReport])
	require.NoError(t, err)

	assert.Contains(t, html, "Revenue Wed, 01 May 2024")
	assert.Contains(t, html, "Bills paid: 2")
	assert.Contains(t, html, "41.60")
}

func TestRender_MissingTemplate(t *testing.T) {
	_, err := newTestClient().Render(Template("nope"), nil)
	assert.Error(t, err)
}
