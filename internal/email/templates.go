package email

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

var integrityAlertTemplate = template.Must(template.New("integrity_alert").Parse(`<h2>File integrity check failed</h2>
<p>Hello {{.Username}},</p>
<p>The {{.CheckType}} check of <b>{{.OriginalFilename}}</b> (id {{.FileID}}) at {{.CheckedAt}} did not match the fingerprint recorded at upload.</p>
<table>
<tr><td>Expected</td><td><code>{{.OriginalHash}}</code></td></tr>
<tr><td>Computed</td><td><code>{{.ComputedHash}}</code></td></tr>
</table>
<p>The file may have been corrupted or tampered with.</p>`))

func renderIntegrityAlert(alert *IntegrityAlert) (subject, body string, err error) {
	data := struct {
		*IntegrityAlert
		CheckedAt string
	}{
		IntegrityAlert: alert,
		CheckedAt:      alert.CheckedAt.UTC().Format(time.RFC3339),
	}

	var buf strings.Builder
	if err := integrityAlertTemplate.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("failed to render integrity alert: %w", err)
	}

	subject = fmt.Sprintf("Integrity check failed: %s", alert.OriginalFilename)
	return subject, buf.String(), nil
}
