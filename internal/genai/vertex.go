package genai

import (
	"context"
	"fmt"
	"strings"

	aiplatform "google.golang.org/api/aiplatform/v1"
	"google.golang.org/api/option"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/config"
)

// ContentGenerator produces model text for a prompt
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// VertexClient calls Gemini models through the Vertex AI REST API
type VertexClient struct {
	service *aiplatform.Service
	model   string
	config  *aiplatform.GoogleCloudAiplatformV1GenerationConfig
}

// NewVertexClient creates a client for the regional Vertex AI endpoint.
// Application default credentials are used unless a credentials file is
// configured; opts are applied last.
func NewVertexClient(ctx context.Context, cfg config.GenAIConfig, opts ...option.ClientOption) (*VertexClient, error) {
	clientOpts := []option.ClientOption{
		option.WithEndpoint(fmt.Sprintf("https://%s-aiplatform.googleapis.com/", cfg.Location)),
	}
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := aiplatform.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI service: %w", err)
	}

	return &VertexClient{
		service: service,
		model:   ModelResource(cfg.ProjectID, cfg.Location, cfg.Model),
		config: &aiplatform.GoogleCloudAiplatformV1GenerationConfig{
			Temperature:     cfg.Temperature,
			TopP:            cfg.TopP,
			TopK:            cfg.TopK,
			MaxOutputTokens: cfg.MaxOutputTokens,
		},
	}, nil
}

// ModelResource returns the publisher model path used by generateContent
func ModelResource(project, location, model string) string {
	return fmt.Sprintf("projects/%s/locations/%s/publishers/google/models/%s", project, location, model)
}

// GenerateContent sends prompt as a single user turn and returns the text of
// the first candidate.
func (c *VertexClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	req := &aiplatform.GoogleCloudAiplatformV1GenerateContentRequest{
		Contents: []*aiplatform.GoogleCloudAiplatformV1Content{
			{
				Role:  "user",
				Parts: []*aiplatform.GoogleCloudAiplatformV1Part{{Text: prompt}},
			},
		},
		GenerationConfig: c.config,
	}

	resp, err := c.service.Projects.Locations.Publishers.Models.GenerateContent(c.model, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("generateContent failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("model returned no candidates")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("model returned an empty candidate (finish reason %q)", resp.Candidates[0].FinishReason)
	}

	return text.String(), nil
}
