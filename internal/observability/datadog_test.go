package observability

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Setup mutates OTEL_* process env, so none of these tests run in parallel.

func TestSetupDatadog(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{
			name: "empty host falls back to the local agent",
			cfg: Config{
				Environment: "test",
				ServiceName: "coda-assistant-test",
			},
		},
		{
			name: "custom agent host",
			cfg: Config{
				AgentHost:   "dd-agent.internal:4318",
				Environment: "staging",
				ServiceName: "coda-assistant-staging",
			},
		},
		{
			name: "zero config",
			cfg:  Config{},
		},
		{
			// Exporter creation does not dial, so a dead agent must not
			// break startup. Spans just fail to export.
			name: "unreachable agent degrades gracefully",
			cfg: Config{
				AgentHost:   "localhost:99999",
				Environment: "test",
				ServiceName: "coda-assistant-test",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OTEL_SERVICE_NAME", "")
			t.Setenv("OTEL_RESOURCE_ATTRIBUTES", "")

			shutdown, err := SetupDatadog(context.Background(), tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, shutdown)

			assert.NoError(t, shutdown(context.Background()))
		})
	}
}

func TestSetupDatadog_PublishesServiceIdentity(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("OTEL_RESOURCE_ATTRIBUTES", "")

	shutdown, err := SetupDatadog(context.Background(), Config{
		Environment: "prod",
		ServiceName: "coda-assistant",
	})
	require.NoError(t, err)
	defer func() { assert.NoError(t, shutdown(context.Background())) }()

	assert.Equal(t, "coda-assistant", os.Getenv("OTEL_SERVICE_NAME"))
	assert.Equal(t, "deployment.environment=prod", os.Getenv("OTEL_RESOURCE_ATTRIBUTES"))
}

func TestSetupDatadog_LeavesIdentityUnsetWhenBlank(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("OTEL_RESOURCE_ATTRIBUTES", "")

	shutdown, err := SetupDatadog(context.Background(), Config{})
	require.NoError(t, err)
	defer func() { assert.NoError(t, shutdown(context.Background())) }()

	assert.Empty(t, os.Getenv("OTEL_SERVICE_NAME"))
	assert.Empty(t, os.Getenv("OTEL_RESOURCE_ATTRIBUTES"))
}

func TestDefaultAgentHost_Value(t *testing.T) {
	assert.Equal(t, "localhost:4318", DefaultAgentHost)
}
