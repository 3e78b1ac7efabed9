package genai

import (
	"bytes"
	"encoding/json"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/models"
)

// flexString accepts strings, numbers and booleans; models are not strict
// about JSON types.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(data)
	return nil
}

type recommendationWire struct {
	Category      flexString `json:"category"`
	Title         flexString `json:"title"`
	Description   flexString `json:"description"`
	Reasoning     flexString `json:"reasoning"`
	Priority      flexString `json:"priority"`
	EstimatedCost flexString `json:"estimated_cost"`
	Timeline      flexString `json:"timeline"`
}

type profileWire struct {
	ClientName      flexString `json:"client_name"`
	Email           flexString `json:"email"`
	Phone           flexString `json:"phone"`
	ProjectType     flexString `json:"project_type"`
	ProjectSummary  flexString `json:"project_summary"`
	Address         flexString `json:"property_address"`
	RoomCount       flexString `json:"room_count"`
	SquareFeet      flexString `json:"square_feet"`
	BudgetRange     flexString `json:"budget_range"`
	Timeline        flexString `json:"timeline"`
	StylePreference flexString `json:"style_preference"`
	Urgency         flexString `json:"urgency"`

	StyleAnalysis    flexString `json:"design_style_analysis"`
	SpaceAnalysis    flexString `json:"space_analysis"`
	BudgetAnalysis   flexString `json:"budget_analysis"`
	TimelineAnalysis flexString `json:"timeline_analysis"`

	Recommendations       []recommendationWire `json:"recommendations"`
	OverallRecommendation flexString           `json:"overall_recommendation"`
	NextSteps             []flexString         `json:"next_steps"`

	EstimatedProjectDuration flexString `json:"estimated_project_duration"`
	EstimatedTotalCost       flexString `json:"estimated_total_cost"`
}

func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// toProfile prefers model output and falls back to the submitted form
func (w *profileWire) toProfile(form *models.ClientFormData) *models.ClientProfile {
	p := &models.ClientProfile{
		ClientName:      pick(string(w.ClientName), form.ClientName, "Unknown"),
		Email:           pick(string(w.Email), form.Email),
		Phone:           pick(string(w.Phone), form.Phone),
		ProjectType:     pick(string(w.ProjectType), form.ProjectType, "Interior Design"),
		BudgetRange:     pick(string(w.BudgetRange), form.BudgetRange),
		Timeline:        pick(string(w.Timeline), form.Timeline),
		Address:         pick(string(w.Address), form.Address),
		RoomCount:       pick(string(w.RoomCount), form.RoomCount),
		SquareFeet:      pick(string(w.SquareFeet), form.SquareFeet),
		StylePreference: pick(string(w.StylePreference), form.StylePreference),
		Urgency:         pick(string(w.Urgency), form.Urgency),

		ProjectSummary:   string(w.ProjectSummary),
		StyleAnalysis:    string(w.StyleAnalysis),
		SpaceAnalysis:    string(w.SpaceAnalysis),
		BudgetAnalysis:   string(w.BudgetAnalysis),
		TimelineAnalysis: string(w.TimelineAnalysis),

		OverallRecommendation:    string(w.OverallRecommendation),
		EstimatedProjectDuration: string(w.EstimatedProjectDuration),
		EstimatedTotalCost:       string(w.EstimatedTotalCost),
	}

	for _, r := range w.Recommendations {
		p.Recommendations = append(p.Recommendations, models.DesignRecommendation{
			Category:      pick(string(r.Category), "General"),
			Title:         pick(string(r.Title), "Design Recommendation"),
			Description:   string(r.Description),
			Reasoning:     string(r.Reasoning),
			Priority:      pick(string(r.Priority), "medium"),
			EstimatedCost: string(r.EstimatedCost),
			Timeline:      string(r.Timeline),
		})
	}

	for _, step := range w.NextSteps {
		if step != "" {
			p.NextSteps = append(p.NextSteps, string(step))
		}
	}

	return p
}
