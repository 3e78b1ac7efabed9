// Package publisher sends client form data to the intake topic.
package publisher

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	pubsub "google.golang.org/api/pubsub/v1"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/config"
)

const messageVersion = "1.0"

// ErrNoMessageID is returned when the topic accepts a publish without
// reporting an id
var ErrNoMessageID = errors.New("publish returned no message id")

// Publisher publishes form submissions to a Pub/Sub topic
type Publisher struct {
	service *pubsub.Service
	topic   string
	now     func() time.Time
}

// New creates a Publisher for the configured topic. opts are applied after
// the credentials file option.
func New(ctx context.Context, cfg config.PubSubConfig, opts ...option.ClientOption) (*Publisher, error) {
	if cfg.ProjectID == "" || cfg.Topic == "" {
		return nil, fmt.Errorf("pubsub project id and topic are required")
	}

	var clientOpts []option.ClientOption
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := pubsub.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pub/Sub service: %w", err)
	}

	return &Publisher{
		service: service,
		topic:   TopicPath(cfg.ProjectID, cfg.Topic),
		now:     time.Now,
	}, nil
}

// TopicPath returns the fully qualified topic name
func TopicPath(project, topic string) string {
	return fmt.Sprintf("projects/%s/topics/%s", project, topic)
}

// Topic returns the fully qualified topic this publisher writes to
func (p *Publisher) Topic() string {
	return p.topic
}

// Publish wraps fields with submission metadata and publishes them,
// returning the id assigned by Pub/Sub
func (p *Publisher) Publish(ctx context.Context, fields map[string]any, source string) (string, error) {
	if source == "" {
		source = "api"
	}
	timestamp := p.now().UTC().Format(time.RFC3339Nano)

	body, err := json.Marshal(map[string]any{
		"data":      fields,
		"source":    source,
		"timestamp": timestamp,
		"version":   messageVersion,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode form data: %w", err)
	}

	req := &pubsub.PublishRequest{
		Messages: []*pubsub.PubsubMessage{{
			Data: base64.StdEncoding.EncodeToString(body),
			Attributes: map[string]string{
				"source":    source,
				"timestamp": timestamp,
			},
		}},
	}

	resp, err := p.service.Projects.Topics.Publish(p.topic, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to publish to %s: %w", p.topic, err)
	}
	if len(resp.MessageIds) == 0 {
		return "", ErrNoMessageID
	}

	logrus.WithFields(logrus.Fields{
		"message_id": resp.MessageIds[0],
		"topic":      p.topic,
		"source":     source,
		"data_size":  len(body),
	}).Info("Form data published")
	return resp.MessageIds[0], nil
}

// Ping checks that the topic exists and is readable
func (p *Publisher) Ping(ctx context.Context) error {
	if _, err := p.service.Projects.Topics.Get(p.topic).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to read topic %s: %w", p.topic, err)
	}
	return nil
}
