// Package genai builds client profiles with a generative model.
package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/models"
)

// ErrEmptyResponse is returned when the model reply holds no JSON object
var ErrEmptyResponse = errors.New("empty model response")

// ServiceError wraps failures of the generation service
type ServiceError struct {
	Op    string
	Model string
	Err   error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("genai %s (%s): %v", e.Op, e.Model, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Generator turns normalized form data into a ClientProfile
type Generator struct {
	client  ContentGenerator
	model   string
	timeout time.Duration
	now     func() time.Time
}

// NewGenerator creates a Generator. A zero timeout leaves the call bounded
// only by ctx.
func NewGenerator(client ContentGenerator, model string, timeout time.Duration) *Generator {
	return &Generator{
		client:  client,
		model:   model,
		timeout: timeout,
		now:     time.Now,
	}
}

// Generate makes one model call and parses the reply. It does not retry.
func (g *Generator) Generate(ctx context.Context, form *models.ClientFormData) (*models.ClientProfile, error) {
	prompt := buildPrompt(form)

	text, err := g.call(ctx, prompt)
	if err != nil {
		return nil, &ServiceError{Op: "generate", Model: g.model, Err: err}
	}

	var wire profileWire
	cleaned := cleanResponse(text)
	if cleaned == "" {
		return nil, &ServiceError{Op: "parse", Model: g.model, Err: ErrEmptyResponse}
	}
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, &ServiceError{Op: "parse", Model: g.model, Err: fmt.Errorf("invalid profile JSON: %w", err)}
	}

	profile := wire.toProfile(form)
	profile.ModelUsed = g.model
	profile.SourceMessageID = form.MessageID
	profile.GeneratedAt = g.now().UTC()

	logrus.WithFields(logrus.Fields{
		"message_id":      form.MessageID,
		"client_name":     profile.ClientName,
		"recommendations": len(profile.Recommendations),
	}).Info("Client profile generated")

	return profile, nil
}

// Ping checks that the model answers a trivial prompt
func (g *Generator) Ping(ctx context.Context) error {
	if _, err := g.call(ctx, pingPrompt); err != nil {
		return &ServiceError{Op: "ping", Model: g.model, Err: err}
	}
	return nil
}

func (g *Generator) call(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := g.client.GenerateContent(ctx, prompt)

	entry := logrus.WithFields(logrus.Fields{
		"model":           g.model,
		"prompt_length":   len(prompt),
		"response_length": len(text),
		"duration":        time.Since(start).Seconds(),
	})
	if err != nil {
		entry.WithError(err).Warn("Model call failed")
		return "", err
	}
	entry.Debug("Model call completed")
	return text, nil
}

// cleanResponse strips markdown fences and keeps the outermost JSON object
func cleanResponse(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return ""
	}
	return text[start : end+1]
}
