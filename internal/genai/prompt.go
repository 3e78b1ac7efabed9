package genai

import (
	"strings"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/models"
)

const pingPrompt = "Respond with 'OK' if you can read this message."

const profileSchema = `{
    "client_name": "Client's full name",
    "email": "Client's email address",
    "phone": "Client's phone number (if provided)",
    "project_type": "Type of interior design project",
    "project_summary": "2-3 sentence summary of the project",
    "property_address": "Property address (if provided)",
    "room_count": "Number of rooms (if provided)",
    "square_feet": "Property size (if provided)",
    "budget_range": "Budget range (if provided)",
    "timeline": "Project timeline (if provided)",
    "style_preference": "Design style preference (if provided)",
    "urgency": "Project urgency level (if provided)",
    "design_style_analysis": "Analysis of the client's style preferences",
    "space_analysis": "Analysis of the space and its potential",
    "budget_analysis": "Budget considerations",
    "timeline_analysis": "Timeline and planning considerations",
    "recommendations": [
        {
            "category": "Color Scheme, Furniture, Layout, Lighting or Materials",
            "title": "Short title",
            "description": "What to do",
            "reasoning": "Why it fits this client",
            "priority": "low, medium or high",
            "estimated_cost": "Cost range, e.g. $500-1500",
            "timeline": "Implementation time, e.g. 1-2 weeks"
        }
    ],
    "overall_recommendation": "Overall design recommendation (2-3 paragraphs)",
    "next_steps": ["Specific next step"],
    "estimated_project_duration": "e.g. 8-12 weeks",
    "estimated_total_cost": "e.g. $15,000-25,000"
}`

// buildPrompt renders the profile request for one client form
func buildPrompt(form *models.ClientFormData) string {
	var b strings.Builder
	b.WriteString("You are an experienced interior designer. Analyze the client information below and create an interior design profile.\n\n")
	b.WriteString("CLIENT INFORMATION:\n")
	b.WriteString(form.Context())
	b.WriteString("\nRespond with a single JSON object in this format:\n\n")
	b.WriteString(profileSchema)
	b.WriteString("\n\nGuidelines:\n")
	b.WriteString("1. Provide 3-5 specific, practical recommendations.\n")
	b.WriteString("2. Keep costs and timelines realistic for the stated budget and schedule.\n")
	b.WriteString("3. Where information is missing, make reasonable assumptions and say so.\n")
	b.WriteString("\nRespond with only the JSON object, no additional text.\n")
	return b.String()
}
