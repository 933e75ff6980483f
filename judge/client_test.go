package judge

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"chat-rules/errors"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestClient_Evaluate_Single(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	var received completionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/chat/completions", r.URL.Path)
		req.Equal("Bearer secret", r.Header.Get("Authorization"))
		req.NoError(json.NewDecoder(r.Body).Decode(&received))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  NO: thou art too modern \n"}}]}`))
	}))
	defer server.Close()

	// Given a configured client
	client := NewClient(log, "secret", WithBaseURL(server.URL+"/"), WithModel("test-model"), WithMaxRetries(0))
	req.True(client.Available())

	// When a single message is evaluated
	raw, err := client.Evaluate(context.Background(), NewRequest("speak like Shakespeare", "hello there"))

	// Then the raw completion is returned trimmed
	req.NoError(err)
	req.Equal("NO: thou art too modern", raw)
	req.Equal(NonCompliant("thou art too modern"), ParseVerdict(raw))

	// And the single message budget and framing have been sent
	req.Equal("test-model", received.Model)
	req.Equal(singleMaxTokens, received.MaxTokens)
	req.Len(received.Messages, 2)
	req.Equal(SystemFraming, received.Messages[0].Content)
	req.Contains(received.Messages[1].Content, `USER MESSAGE: "hello there"`)
}

func TestClient_Evaluate_Batch_Uses_Markers(t *testing.T) {
	req := require.New(t)

	var received completionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.NoError(json.NewDecoder(r.Body).Decode(&received))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"MESSAGE 1: YES\nMESSAGE 2: NO: meh"}}]}`))
	}))
	defer server.Close()

	client := NewClient(logs.GetLoggerFromLevel(slog.LevelDebug), "secret", WithBaseURL(server.URL), WithMaxRetries(0))

	raw, err := client.Evaluate(context.Background(), NewRequest("be formal", "first", "second"))

	req.NoError(err)
	req.Equal(batchMaxTokens, received.MaxTokens)
	req.Contains(received.Messages[1].Content, `MESSAGE 1: "first"`)
	req.Contains(received.Messages[1].Content, `MESSAGE 2: "second"`)
	req.Equal([]Verdict{Compliant, NonCompliant("meh")}, ParseBatch(raw, 2))
}

func TestClient_Evaluate_Unavailable_Without_Key(t *testing.T) {
	req := require.New(t)

	client := NewClient(logs.GetLoggerFromLevel(slog.LevelDebug), "")

	req.False(client.Available())
	_, err := client.Evaluate(context.Background(), NewRequest("rule", "msg"))
	req.ErrorIs(err, errors.ErrJudgeUnavailable)
}

func TestClient_Evaluate_Unexpected_Status(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(logs.GetLoggerFromLevel(slog.LevelDebug), "wrong", WithBaseURL(server.URL), WithMaxRetries(0))

	_, err := client.Evaluate(context.Background(), NewRequest("rule", "msg"))
	req.ErrorIs(err, errors.ErrJudgeStatus)
}

func TestClient_Evaluate_Empty_Choices(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewClient(logs.GetLoggerFromLevel(slog.LevelDebug), "secret", WithBaseURL(server.URL), WithMaxRetries(0))

	_, err := client.Evaluate(context.Background(), NewRequest("rule", "msg"))
	req.ErrorIs(err, errors.ErrEmptyCompletion)
}
