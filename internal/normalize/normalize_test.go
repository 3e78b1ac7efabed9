package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDirectFields(t *testing.T) {
	form, warnings := New().Normalize(map[string]any{
		"client_name":  "John Doe",
		"email":        "john@example.com",
		"project_type": "Kitchen Remodel",
	})

	assert.Equal(t, "John Doe", form.ClientName)
	assert.Equal(t, "john@example.com", form.Email)
	assert.Equal(t, "Kitchen Remodel", form.ProjectType)
	assert.Equal(t, "pubsub", form.Source)
	assert.Empty(t, warnings)
	assert.InDelta(t, 1.0, form.QualityScore, 1e-9)
}

func TestNormalizeUnwrapsDataEnvelope(t *testing.T) {
	form, _ := New().Normalize(map[string]any{
		"data": map[string]any{
			"fullName":     "Jane Roe",
			"contactEmail": "jane@example.com",
		},
		"source":    "website-form",
		"timestamp": "2024-01-01T00:00:00Z",
		"version":   "1.0",
	})

	assert.Equal(t, "Jane Roe", form.ClientName)
	assert.Equal(t, "jane@example.com", form.Email)
	assert.Equal(t, "website-form", form.Source)
	assert.Empty(t, form.Additional, "wrapper keys are not form fields")
}

func TestNormalizeAliasesAndValueShapes(t *testing.T) {
	form, _ := New().Normalize(map[string]any{
		"name":          map[string]any{"value": "Ann Lee"},
		"emailAddress":  []any{"ann@example.com", "other@example.com"},
		"telephone":     "+1 (555) 123-4567",
		"rooms":         float64(3),
		"squareFeet":    1250.5,
		"designStyle":   "Scandinavian",
		"priority":      "high",
		"budget_amount": "$20k-$40k",
	})

	assert.Equal(t, "Ann Lee", form.ClientName)
	assert.Equal(t, "ann@example.com", form.Email)
	assert.Equal(t, "+1 (555) 123-4567", form.Phone)
	assert.Equal(t, "3", form.RoomCount)
	assert.Equal(t, "1250.5", form.SquareFeet)
	assert.Equal(t, "Scandinavian", form.StylePreference)
	assert.Equal(t, "high", form.Urgency)
	assert.Equal(t, "$20k-$40k", form.BudgetRange)
}

func TestNormalizeAliasPrecedence(t *testing.T) {
	form, _ := New().Normalize(map[string]any{
		"client_name": "Second",
		"name":        "First",
	})
	assert.Equal(t, "First", form.ClientName)

	form, _ = New().Normalize(map[string]any{
		"name":        "",
		"client_name": "Fallback",
	})
	assert.Equal(t, "Fallback", form.ClientName)
}

func TestNormalizeSanitizes(t *testing.T) {
	long := strings.Repeat("a", 1200)
	form, _ := New().Normalize(map[string]any{
		"name":         "  John \n  Doe  ",
		"password":     "hunter2",
		"api_key":      "abc",
		"AuthHeader":   "Bearer x",
		"notes":        long,
		"pets":         []any{"cat", "dog"},
		"accessible":   true,
		"ignored_null": nil,
	})

	assert.Equal(t, "John Doe", form.ClientName)
	assert.NotContains(t, form.Additional, "password")
	assert.NotContains(t, form.Additional, "api_key")
	assert.NotContains(t, form.Additional, "AuthHeader")
	assert.NotContains(t, form.Additional, "ignored_null")
	assert.Equal(t, strings.Repeat("a", 1000)+"...", form.Additional["notes"])
	assert.Equal(t, `["cat","dog"]`, form.Additional["pets"])
	assert.Equal(t, "true", form.Additional["accessible"])
}

func TestNormalizeWarnings(t *testing.T) {
	form, warnings := New().Normalize(map[string]any{
		"email": "not-an-email",
		"phone": "12",
	})

	assert.Contains(t, warnings, "Missing required field: client_name")
	assert.Contains(t, warnings, "Invalid email format: not-an-email")
	assert.Contains(t, warnings, "Invalid phone format: 12")
	assert.NotContains(t, warnings, "Missing required field: email")
	assert.Less(t, form.QualityScore, 0.3)
	assert.Contains(t, warnings, "Data quality is very low - manual review recommended")
}

func TestNormalizeNeverFailsOnOddInput(t *testing.T) {
	for _, raw := range []map[string]any{
		nil,
		{},
		{"data": "not an object"},
		{"name": map[string]any{"nested": map[string]any{"deep": 1}}},
		{"email": []any{}},
	} {
		form, warnings := New().Normalize(raw)
		assert.NotNil(t, form)
		assert.Contains(t, warnings, "Missing required field: client_name")
	}
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidEmail("a.b+c@example.co"))
	assert.False(t, ValidEmail("a@b"))
	assert.True(t, ValidPhone("555-123-4567"))
	assert.False(t, ValidPhone("123"))
	assert.False(t, ValidPhone("1234567890123456"))
}
