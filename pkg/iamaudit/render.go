package iamaudit

import (
	"bytes"
	"encoding/json"
	"strings"
	"text/template"
)

// separatorWidth is the width of the dashed line between report sections.
const separatorWidth = 36

const reportTemplate = `IAM Access Review Report (Generated: {{ .Date }})
{{ if not .Users }}✅ No issues found. All IAM users are compliant.
{{ else }}⚠️ {{ len .Users }} issue(s) found:
{{ .Separator }}
{{ range .Users }}User: {{ .User }}
{{ range .Issues }}   - ❌ {{ .Message }} [Severity: {{ .Severity }}]
     Recommendation: {{ .Recommendation }}
{{ end }}{{ $.Separator }}
{{ end }}{{ end }}`

var textReport = template.Must(template.New("report").Parse(reportTemplate))

type reportData struct {
	Date      string
	Users     []UserIssues
	Separator string
}

// Render produces the text report for the given date and flagged users.
// Users are listed in the order given, issues in check order.
func Render(date string, users []UserIssues) (string, error) {
	var buf bytes.Buffer
	err := textReport.Execute(&buf, reportData{
		Date:      date,
		Users:     users,
		Separator: strings.Repeat("-", separatorWidth),
	})
	if err != nil {
		return "", ErrRender("failed to render report").WithCause(err)
	}
	return buf.String(), nil
}

// TextFormatter renders reports as the human-readable text document.
type TextFormatter struct{}

// Format implements Formatter.
func (TextFormatter) Format(report *Report) ([]byte, error) {
	out, err := Render(report.Date, report.Users)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// Extension implements Formatter.
func (TextFormatter) Extension() string { return "txt" }

// JSONFormatter renders reports as indented JSON.
type JSONFormatter struct{}

// Format implements Formatter.
func (JSONFormatter) Format(report *Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, ErrRender("failed to marshal report").WithCause(err)
	}
	return append(data, '\n'), nil
}

// Extension implements Formatter.
func (JSONFormatter) Extension() string { return "json" }

// FormatterFor returns the formatter registered under name ("text" or "json").
func FormatterFor(name string) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", "text", "txt":
		return TextFormatter{}, nil
	case "json":
		return JSONFormatter{}, nil
	default:
		return nil, ErrConfiguration("unknown report format: " + name)
	}
}
