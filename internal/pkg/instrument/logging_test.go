package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerMasksConfiguredFields(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newHandler(&buf, Config{
		ServiceName: "mindcare-test",
		MaskFields:  []string{"password", " Code "},
	}, nil))

	ctx := SetCorrelationID(context.Background(), "cid-1")
	log.InfoContext(ctx, "request",
		"password", "hunter22",
		"body", `{"email":"a@x.com","code":"123456","nested":{"password":"x"}}`,
		slog.Group("otp", slog.String("code", "654321"), slog.String("email", "b@x.com")),
	)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "***", got["password"])
	assert.Equal(t, "cid-1", got["correlation_id"])
	assert.Equal(t, "mindcare-test", got["service"])
	assert.Equal(t, "INFO", got["severity"])

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(got["body"].(string)), &body))
	assert.Equal(t, "***", body["code"])
	assert.Equal(t, "a@x.com", body["email"])
	assert.Equal(t, "***", body["nested"].(map[string]any)["password"])

	group := got["otp"].(map[string]any)
	assert.Equal(t, "***", group["code"])
	assert.Equal(t, "b@x.com", group["email"])
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newHandler(&buf, Config{LogLevel: "warn"}, nil))

	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestCorrelationIDMissing(t *testing.T) {
	assert.Empty(t, GetCorrelationID(context.Background()))
}

func TestNoop(t *testing.T) {
	ins := NewNoop()
	_, span := ins.Tracer("t").Start(context.Background(), "op")
	span.End()
	assert.NoError(t, ins.Shutdown(context.Background()))
}
