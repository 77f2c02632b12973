package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// Attachment pairs a filename with a raw payload. No delivery strategy may
// drop attachments.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message is one outbound email, transport-agnostic.
type Message struct {
	From        string
	To          []string
	Subject     string
	HTML        string
	Attachments []Attachment
}

var reportBodyTmpl = template.Must(template.New("report_email").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; }
  .header { background: #000; color: #fff; padding: 15px; text-align: center; }
  .content { padding: 20px; background: #f9f9f9; }
  .info-box { background: #fff; border-left: 4px solid #007bff; padding: 15px; margin: 20px 0; }
  .footer { text-align: center; font-size: 12px; color: #777; margin-top: 20px; }
</style>
</head>
<body>
<div class="container">
  <div class="header"><h2>STAFFEYE REPORT SYSTEM</h2></div>
  <div class="content">
    <p>Hello,</p>
    <p>Please find the scheduled report attached.</p>
    <div class="info-box">
      <p><strong>Report:</strong> {{.Name}}</p>
      <p><strong>Data range:</strong> {{.DateRange}}</p>
      <p><strong>Generated:</strong> {{.GeneratedAt}}</p>
    </div>
    <p>The detailed report is attached to this email as a CSV file.</p>
  </div>
  <div class="footer"><p>This email was sent automatically, please do not reply.</p></div>
</div>
</body>
</html>
`))

// NewReportMessage builds the standard scheduled-report email around a CSV
// attachment.
func NewReportMessage(from string, to []string, reportName, dateRange, filename string, csv []byte) (*Message, error) {
	var body bytes.Buffer
	err := reportBodyTmpl.Execute(&body, map[string]string{
		"Name":        reportName,
		"DateRange":   dateRange,
		"GeneratedAt": time.Now().Format("2006-01-02 15:04:05"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render report email body: %v", err)
	}

	return &Message{
		From:        from,
		To:          to,
		Subject:     fmt.Sprintf("[StaffEye] Scheduled report: %s", reportName),
		HTML:        body.String(),
		Attachments: []Attachment{{Filename: filename, Content: csv}},
	}, nil
}
