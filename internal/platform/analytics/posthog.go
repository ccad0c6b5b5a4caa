// Package analytics forwards product events (expense created, submitted, decided) to PostHog.
// Without an API key every call is a no-op.
package analytics

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

// DefaultEndpoint is used when POSTHOG_ENDPOINT is not configured.
const DefaultEndpoint = "https://eu.i.posthog.com"

// Tracker records product events for a user.
type Tracker interface {
	Track(distinctID, event string, properties map[string]any)
	Close()
}

// PosthogTracker wraps posthog.Client so callers never have to check whether it was configured.
type PosthogTracker struct {
	client posthog.Client
	logger *slog.Logger
}

// NewPosthogTracker returns a tracker backed by PostHog, or a disabled one when apiKey is empty
// or the client cannot be built.
func NewPosthogTracker(apiKey, endpoint string, logger *slog.Logger) *PosthogTracker {
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, product analytics disabled.")
		return &PosthogTracker{}
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		logger.Error("Failed to initialize posthog client, product analytics disabled", slog.String("error", err.Error()))
		return &PosthogTracker{}
	}
	logger.Info("Posthog client initialized", slog.String("endpoint", endpoint))
	return &PosthogTracker{client: client, logger: logger}
}

// Enabled reports whether events are actually sent.
func (t *PosthogTracker) Enabled() bool {
	return t != nil && t.client != nil
}

func (t *PosthogTracker) Track(distinctID, event string, properties map[string]any) {
	if !t.Enabled() {
		return
	}
	t.logger.Debug("Enqueueing event", slog.String("distinct_id", distinctID), slog.String("event", event))
	if err := t.client.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	}); err != nil {
		t.logger.Warn("Failed to enqueue analytics event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

func (t *PosthogTracker) Close() {
	if !t.Enabled() {
		return
	}
	if err := t.client.Close(); err != nil {
		t.logger.Warn("Failed to flush analytics events", slog.String("error", err.Error()))
	}
}
