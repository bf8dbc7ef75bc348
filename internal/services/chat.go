package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"chat-widget/internal/models"
)

// ChatPath is the backend endpoint that answers prompts.
const ChatPath = "/chat"

// ErrMissingReply is returned when the backend body has no string "response" field.
var ErrMissingReply = errors.New("response body has no reply field")

// ErrInvalidPrompt is returned for prompts that are not valid UTF-8.
var ErrInvalidPrompt = errors.New("prompt is not valid UTF-8")

// StatusError reports a non-2xx answer from the backend.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

type ChatService struct {
	baseURL    string
	httpClient *http.Client
}

// NewChatService returns a client for the backend at baseURL. A nil
// httpClient means http.DefaultClient; no timeout is added here.
func NewChatService(baseURL string, httpClient *http.Client) *ChatService {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ChatService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Ask posts prompt to the backend and returns the assistant's reply.
func (s *ChatService) Ask(ctx context.Context, prompt string) (models.AssistantReply, error) {
	if !utf8.ValidString(prompt) {
		return models.AssistantReply{}, ErrInvalidPrompt
	}
	endpoint := s.baseURL + ChatPath + "?prompt=" + EncodeURIComponent(prompt)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return models.AssistantReply{}, fmt.Errorf("failed to build chat request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return models.AssistantReply{}, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return models.AssistantReply{}, &StatusError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.AssistantReply{}, fmt.Errorf("failed to read chat response: %w", err)
	}

	// The whole body must be one JSON value; trailing bytes are a parse failure.
	var body models.ChatResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return models.AssistantReply{}, fmt.Errorf("failed to decode chat response: %w", err)
	}
	if body.Response == nil {
		return models.AssistantReply{}, ErrMissingReply
	}

	return models.AssistantReply{Text: *body.Response}, nil
}

// EncodeURIComponent percent-encodes s for use as a query value, leaving
// only A-Z a-z 0-9 - _ . ! ~ * ' ( ) unescaped. Invalid UTF-8 is encoded
// byte by byte; Ask rejects such prompts before calling it.
func EncodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	// QueryEscape writes spaces as '+' and a literal '+' as %2B.
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	for from, to := range map[string]string{
		"%21": "!", "%27": "'", "%28": "(", "%29": ")", "%2A": "*",
	} {
		escaped = strings.ReplaceAll(escaped, from, to)
	}
	return escaped
}
