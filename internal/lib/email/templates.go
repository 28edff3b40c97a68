package email

// Template names a file under the template directory, without extension.
type Template string

const (
	TemplateReceipt     Template = "receipt"
	TemplateDailyReport Template = "daily_report"
)
