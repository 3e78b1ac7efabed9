package report

const subjectTemplate = `New Client Profile: {{.ClientName}}`

const textTemplate = `CLIENT PROFILE: {{.ClientName}}
Generated: {{date .GeneratedAt}}

PROJECT OVERVIEW
Type: {{na .ProjectType}}
Summary: {{na .ProjectSummary}}
Budget: {{na .BudgetRange}}
Timeline: {{na .Timeline}}

CONTACT
Email: {{na .Email}}
Phone: {{na .Phone}}

PROPERTY DETAILS
Address: {{na .Address}}
Rooms: {{na .RoomCount}}
Size: {{na .SquareFeet}}

CLIENT PREFERENCES
Style: {{na .StylePreference}}
Urgency: {{na .Urgency}}

AI ANALYSIS
Design Style: {{na .StyleAnalysis}}
Space: {{na .SpaceAnalysis}}
Budget: {{na .BudgetAnalysis}}
Timeline: {{na .TimelineAnalysis}}

DESIGN RECOMMENDATIONS
{{range $i, $r := .Recommendations}}{{inc $i}}. {{$r.Title}} [{{$r.Category}}, {{$r.Priority}} priority]
   {{$r.Description}}
   Reasoning: {{na $r.Reasoning}}
   Cost: {{na $r.EstimatedCost}} | Timeline: {{na $r.Timeline}}
{{else}}No recommendations.
{{end}}
OVERALL RECOMMENDATION
{{na .OverallRecommendation}}

NEXT STEPS
{{range $i, $s := .NextSteps}}{{inc $i}}. {{$s}}
{{else}}Not specified
{{end}}
PROJECT ESTIMATES
Duration: {{na .EstimatedProjectDuration}}
Total Cost: {{na .EstimatedTotalCost}}
{{if .Warnings}}
DATA QUALITY NOTES
{{range .Warnings}}- {{.}}
{{end}}{{end}}
Generated by {{.Sender}}{{if .ModelUsed}} using {{.ModelUsed}}{{end}}
`

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Client Profile: {{.ClientName}}</title>
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px; }
.section { margin-bottom: 24px; padding: 16px; background: #f9f9f9; border-radius: 8px; }
.recommendation { background: #fff; padding: 12px; margin: 8px 0; border-left: 4px solid #667eea; }
.priority-high { border-left-color: #e74c3c; }
.priority-low { border-left-color: #27ae60; }
</style>
</head>
<body>
<h1>Client Profile: {{.ClientName}}</h1>
<p>Generated on {{date .GeneratedAt}}</p>

<div class="section">
<h2>Project Overview</h2>
<p><strong>Type:</strong> {{na .ProjectType}}</p>
<p><strong>Summary:</strong> {{na .ProjectSummary}}</p>
<p><strong>Budget:</strong> {{na .BudgetRange}} &middot; <strong>Timeline:</strong> {{na .Timeline}}</p>
<p><strong>Email:</strong> {{na .Email}} &middot; <strong>Phone:</strong> {{na .Phone}}</p>
</div>

<div class="section">
<h2>Property Details</h2>
<p><strong>Address:</strong> {{na .Address}}</p>
<p><strong>Rooms:</strong> {{na .RoomCount}} &middot; <strong>Size:</strong> {{na .SquareFeet}}</p>
<p><strong>Style:</strong> {{na .StylePreference}} &middot; <strong>Urgency:</strong> {{na .Urgency}}</p>
</div>

<div class="section">
<h2>AI Analysis</h2>
<h3>Design Style</h3><p>{{na .StyleAnalysis}}</p>
<h3>Space</h3><p>{{na .SpaceAnalysis}}</p>
<h3>Budget</h3><p>{{na .BudgetAnalysis}}</p>
<h3>Timeline</h3><p>{{na .TimelineAnalysis}}</p>
</div>

<div class="section">
<h2>Design Recommendations</h2>
{{range .Recommendations}}<div class="recommendation priority-{{.Priority}}">
<h3>{{.Title}}</h3>
<p><em>{{.Category}} &middot; {{.Priority}} priority</em></p>
<p>{{.Description}}</p>
<p><strong>Reasoning:</strong> {{na .Reasoning}}</p>
<p><strong>Cost:</strong> {{na .EstimatedCost}} &middot; <strong>Timeline:</strong> {{na .Timeline}}</p>
</div>
{{else}}<p>No recommendations.</p>
{{end}}</div>

<div class="section">
<h2>Overall Recommendation</h2>
<p>{{na .OverallRecommendation}}</p>
</div>

<div class="section">
<h2>Next Steps</h2>
<ol>{{range .NextSteps}}<li>{{.}}</li>{{end}}</ol>
</div>

<div class="section">
<h2>Project Estimates</h2>
<p><strong>Duration:</strong> {{na .EstimatedProjectDuration}}</p>
<p><strong>Total Cost:</strong> {{na .EstimatedTotalCost}}</p>
</div>
{{if .Warnings}}
<div class="section">
<h2>Data Quality Notes</h2>
<ul>{{range .Warnings}}<li>{{.}}</li>{{end}}</ul>
</div>
{{end}}
<p style="color:#666;font-size:13px">Generated by {{.Sender}}{{if .ModelUsed}} using {{.ModelUsed}}{{end}}</p>
</body>
</html>
`
