package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/config"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/genai"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/publisher"
)

func TestParseForm(t *testing.T) {
	fields, err := parseForm([]byte(`{"client_name":"John Doe","rooms":3}`))
	require.NoError(t, err)
	assert.Equal(t, "John Doe", fields["client_name"])

	for _, raw := range []string{`[]`, `"x"`, `{}`, `not json`} {
		_, err := parseForm([]byte(raw))
		assert.Error(t, err, raw)
	}
}

func TestPublishRequiresFormData(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"publish"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "form data is required")
}

func TestLedgerPruneRejectsNonPositiveDays(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"ledger", "prune", "--days", "0"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	assert.Error(t, cmd.Execute())
}

func TestGmailTokenRequiresClientCredentials(t *testing.T) {
	t.Setenv("GMAIL_CLIENT_ID", "")
	t.Setenv("GMAIL_CLIENT_SECRET", "")

	cmd := newRootCommand()
	cmd.SetArgs([]string{"gmail-token"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GMAIL_CLIENT_ID")
}

func TestGmailOAuthConfigRequestsSendScope(t *testing.T) {
	c := gmailOAuthConfig("id", "secret", "http://localhost:9999/cb")
	assert.Equal(t, []string{gmail.GmailSendScope}, c.Scopes)
	assert.True(t, strings.Contains(c.AuthCodeURL("s"), "client_id=id"))
}

type modelFunc func(ctx context.Context, prompt string) (string, error)

func (f modelFunc) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func pubsubDependency(t *testing.T, status int) dependency {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, `{"error":{"code":404,"message":"topic not found"}}`, status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"projects/demo/topics/client-form-submissions"}`))
	}))
	t.Cleanup(srv.Close)

	return dependency{name: "pubsub", build: func(ctx context.Context) (pinger, error) {
		return publisher.New(ctx, config.PubSubConfig{ProjectID: "demo", Topic: "client-form-submissions"},
			option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	}}
}

func vertexDependency(err error) dependency {
	return dependency{name: "vertex_ai", build: func(ctx context.Context) (pinger, error) {
		model := modelFunc(func(context.Context, string) (string, error) { return "OK", err })
		return genai.NewGenerator(model, "gemini-test", 0), nil
	}}
}

func TestRunChecksReportsEveryDependency(t *testing.T) {
	tests := []struct {
		name       string
		deps       []dependency
		wantFailed int
		wantVertex string
		wantPubSub string
	}{
		{
			name:       "all reachable",
			deps:       []dependency{vertexDependency(nil), pubsubDependency(t, http.StatusOK)},
			wantVertex: statusConnected,
			wantPubSub: statusConnected,
		},
		{
			name:       "model down",
			deps:       []dependency{vertexDependency(errors.New("permission denied")), pubsubDependency(t, http.StatusOK)},
			wantFailed: 1,
			wantVertex: "permission denied",
			wantPubSub: statusConnected,
		},
		{
			name:       "topic missing",
			deps:       []dependency{vertexDependency(nil), pubsubDependency(t, http.StatusNotFound)},
			wantFailed: 1,
			wantVertex: statusConnected,
			wantPubSub: "client-form-submissions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, failed := runChecks(context.Background(), tt.deps)
			assert.Equal(t, tt.wantFailed, failed)
			assert.Contains(t, report["vertex_ai"], tt.wantVertex)
			assert.Contains(t, report["pubsub"], tt.wantPubSub)
		})
	}
}

func TestRunChecksReportsConstructionFailure(t *testing.T) {
	deps := []dependency{{name: "pubsub", build: func(context.Context) (pinger, error) {
		return nil, errors.New("missing credentials")
	}}}

	report, failed := runChecks(context.Background(), deps)
	assert.Equal(t, 1, failed)
	assert.Equal(t, "missing credentials", report["pubsub"])
}
