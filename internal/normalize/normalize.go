// Package normalize turns loosely shaped intake payloads into ClientFormData.
package normalize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/models"
)

const (
	defaultSource    = "pubsub"
	defaultMaxLength = 1000
	lowQualityScore  = 0.3
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Normalizer extracts canonical form fields. It never fails; problems are
// reported as warnings alongside a best-effort result.
type Normalizer struct {
	maxLength int
}

// New creates a Normalizer with default limits
func New() *Normalizer {
	return &Normalizer{maxLength: defaultMaxLength}
}

// Normalize accepts either the form fields directly or a wrapper of the
// form {"data": {...}, "source": "..."}.
func (n *Normalizer) Normalize(raw map[string]any) (*models.ClientFormData, []string) {
	fields, source := unwrap(raw)
	clean := n.sanitize(fields)

	values := make(map[string]string, len(fieldAliases))
	for _, fa := range fieldAliases {
		for _, alias := range fa.aliases {
			v, ok := clean[alias]
			if !ok {
				continue
			}
			if s := scalarString(extract(v)); s != "" {
				values[fa.field] = s
				break
			}
		}
	}

	form := &models.ClientFormData{
		ClientName:      values["client_name"],
		Email:           values["email"],
		Phone:           values["phone"],
		ProjectType:     values["project_type"],
		BudgetRange:     values["budget_range"],
		Timeline:        values["timeline"],
		Address:         values["address"],
		RoomCount:       values["room_count"],
		SquareFeet:      values["square_feet"],
		StylePreference: values["style_preference"],
		Urgency:         values["urgency"],
		Source:          source,
	}

	for key, v := range clean {
		if knownAliases[key] {
			continue
		}
		if s := stringify(v); s != "" {
			if form.Additional == nil {
				form.Additional = make(map[string]string)
			}
			form.Additional[key] = s
		}
	}

	var warnings []string
	if form.ClientName == "" {
		warnings = append(warnings, "Missing required field: client_name")
	}
	if form.Email == "" {
		warnings = append(warnings, "Missing required field: email")
	}

	invalid := 0
	if form.Email != "" && !ValidEmail(form.Email) {
		warnings = append(warnings, fmt.Sprintf("Invalid email format: %s", form.Email))
		invalid++
	}
	if form.Phone != "" && !ValidPhone(form.Phone) {
		warnings = append(warnings, fmt.Sprintf("Invalid phone format: %s", form.Phone))
		invalid++
	}

	form.QualityScore = qualityScore(values, invalid, len(clean))
	if form.QualityScore < lowQualityScore {
		warnings = append(warnings, "Data quality is very low - manual review recommended")
	}

	return form, warnings
}

// ValidEmail reports whether s looks like a deliverable address
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPhone accepts 7 to 15 digits once formatting is stripped
func ValidPhone(s string) bool {
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 7 && digits <= 15
}

func unwrap(raw map[string]any) (map[string]any, string) {
	source := defaultSource
	if s, ok := raw["source"].(string); ok && s != "" {
		source = s
	}
	if inner, ok := raw["data"].(map[string]any); ok {
		return inner, source
	}
	return raw, source
}

func (n *Normalizer) sanitize(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for key, v := range fields {
		if sensitive(key) {
			continue
		}
		if s, ok := v.(string); ok {
			v = n.clip(strings.Join(strings.Fields(s), " "))
		}
		out[key] = v
	}
	return out
}

func (n *Normalizer) clip(s string) string {
	if utf8.RuneCountInString(s) <= n.maxLength {
		return s
	}
	return string([]rune(s)[:n.maxLength]) + "..."
}

func sensitive(key string) bool {
	lower := strings.ToLower(key)
	for _, marker := range sensitiveMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// extract unwraps {"value": x} objects and takes the first list element
func extract(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if inner, ok := t["value"]; ok {
			return inner
		}
	case []any:
		if len(t) > 0 {
			return t[0]
		}
		return nil
	}
	return v
}

// scalarString stringifies v unless it is still an object or a list
func scalarString(v any) string {
	switch v.(type) {
	case map[string]any, []any:
		return ""
	}
	return stringify(v)
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

// qualityScore averages the share of critical fields present with the share
// of fields that passed validation.
func qualityScore(values map[string]string, invalid, total int) float64 {
	found := 0
	for _, f := range criticalFields {
		if values[f] != "" {
			found++
		}
	}
	if total < 1 {
		total = 1
	}
	criticalRatio := float64(found) / float64(len(criticalFields))
	validRatio := 1 - float64(invalid)/float64(total)
	return (criticalRatio + validRatio) / 2
}
