package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RawIntake is a decoded push payload handed to one processing attempt.
// It is never persisted.
type RawIntake struct {
	Payload    map[string]any
	MessageID  string
	Attempt    int
	Source     string
	ReceivedAt time.Time
}

// ClientFormData is the normalized view of a client intake form
type ClientFormData struct {
	ClientName      string            `json:"client_name"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone,omitempty"`
	ProjectType     string            `json:"project_type,omitempty"`
	BudgetRange     string            `json:"budget_range,omitempty"`
	Timeline        string            `json:"timeline,omitempty"`
	Address         string            `json:"address,omitempty"`
	RoomCount       string            `json:"room_count,omitempty"`
	SquareFeet      string            `json:"square_feet,omitempty"`
	StylePreference string            `json:"style_preference,omitempty"`
	Urgency         string            `json:"urgency,omitempty"`
	Additional      map[string]string `json:"additional_fields,omitempty"`

	Source       string    `json:"source"`
	MessageID    string    `json:"message_id"`
	ReceivedAt   time.Time `json:"received_at"`
	QualityScore float64   `json:"quality_score"`
}

// Context renders the form as labelled lines for a generation prompt.
// Empty fields are omitted and additional fields follow in key order.
func (f *ClientFormData) Context() string {
	var b strings.Builder
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}

	line("Client Name", f.ClientName)
	line("Email", f.Email)
	line("Phone", f.Phone)
	line("Project Type", f.ProjectType)
	line("Budget Range", f.BudgetRange)
	line("Timeline", f.Timeline)
	line("Address", f.Address)
	line("Number of Rooms", f.RoomCount)
	line("Square Feet", f.SquareFeet)
	line("Style Preference", f.StylePreference)
	line("Urgency", f.Urgency)

	if len(f.Additional) > 0 {
		keys := make([]string, 0, len(f.Additional))
		for k := range f.Additional {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("\nAdditional Information:\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", k, f.Additional[k])
		}
	}

	return b.String()
}
