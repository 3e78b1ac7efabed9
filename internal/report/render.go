package report

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/models"
)

const notSpecified = "Not specified"

// Rendered holds the subject and both bodies of a report
type Rendered struct {
	Subject string
	Text    string
	HTML    string
}

// Renderer renders ClientProfile reports
type Renderer struct {
	sender  string
	subject *texttemplate.Template
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

type view struct {
	*models.ClientProfile
	Sender string
}

var funcs = map[string]any{
	"na": func(s string) string {
		if strings.TrimSpace(s) == "" {
			return notSpecified
		}
		return s
	},
	"inc": func(i int) int { return i + 1 },
	"date": func(t time.Time) string {
		if t.IsZero() {
			t = time.Now()
		}
		return t.UTC().Format("January 02, 2006 at 15:04 UTC")
	},
}

// NewRenderer parses the report templates. sender names the service in the
// report footer.
func NewRenderer(sender string) (*Renderer, error) {
	subject, err := texttemplate.New("subject").Parse(subjectTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse subject template: %w", err)
	}
	text, err := texttemplate.New("text").Funcs(funcs).Parse(textTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse text template: %w", err)
	}
	html, err := htmltemplate.New("html").Funcs(funcs).Parse(htmlTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html template: %w", err)
	}
	return &Renderer{sender: sender, subject: subject, text: text, html: html}, nil
}

// Render produces the subject, plain text and HTML for profile
func (r *Renderer) Render(profile *models.ClientProfile) (*Rendered, error) {
	v := view{ClientProfile: profile, Sender: r.sender}

	var subject, text, html bytes.Buffer
	if err := r.subject.Execute(&subject, v); err != nil {
		return nil, fmt.Errorf("failed to render subject: %w", err)
	}
	if err := r.text.Execute(&text, v); err != nil {
		return nil, fmt.Errorf("failed to render text body: %w", err)
	}
	if err := r.html.Execute(&html, v); err != nil {
		return nil, fmt.Errorf("failed to render html body: %w", err)
	}

	return &Rendered{
		Subject: strings.Join(strings.Fields(subject.String()), " "),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
