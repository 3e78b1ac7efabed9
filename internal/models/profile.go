package models

import "time"

// DesignRecommendation is one actionable suggestion in a ClientProfile
type DesignRecommendation struct {
	Category      string `json:"category"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Reasoning     string `json:"reasoning"`
	Priority      string `json:"priority"`
	EstimatedCost string `json:"estimated_cost,omitempty"`
	Timeline      string `json:"timeline,omitempty"`
}

// ClientProfile is the generated report sent to the designer
type ClientProfile struct {
	ClientName      string `json:"client_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	ProjectType     string `json:"project_type"`
	BudgetRange     string `json:"budget_range,omitempty"`
	Timeline        string `json:"timeline,omitempty"`
	Address         string `json:"property_address,omitempty"`
	RoomCount       string `json:"room_count,omitempty"`
	SquareFeet      string `json:"square_feet,omitempty"`
	StylePreference string `json:"style_preference,omitempty"`
	Urgency         string `json:"urgency,omitempty"`

	ProjectSummary   string `json:"project_summary"`
	StyleAnalysis    string `json:"design_style_analysis,omitempty"`
	BudgetAnalysis   string `json:"budget_analysis,omitempty"`
	TimelineAnalysis string `json:"timeline_analysis,omitempty"`
	SpaceAnalysis    string `json:"space_analysis,omitempty"`

	Recommendations       []DesignRecommendation `json:"recommendations"`
	OverallRecommendation string                 `json:"overall_recommendation"`
	NextSteps             []string               `json:"next_steps"`

	EstimatedProjectDuration string `json:"estimated_project_duration,omitempty"`
	EstimatedTotalCost       string `json:"estimated_total_cost,omitempty"`

	ModelUsed       string    `json:"ai_model_used,omitempty"`
	SourceMessageID string    `json:"source_message_id,omitempty"`
	GeneratedAt     time.Time `json:"generated_at"`
	Warnings        []string  `json:"warnings,omitempty"`
}

// DispatchReceipt describes a delivered report
type DispatchReceipt struct {
	ID        string    `json:"id"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Transport string    `json:"transport"`
	SentAt    time.Time `json:"sent_at"`
}
