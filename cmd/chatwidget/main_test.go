package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-widget/internal/models"
	"chat-widget/internal/services"
	"chat-widget/internal/widget"
)

type stubFetcher struct {
	reply string
	err   error
}

func (s stubFetcher) Ask(ctx context.Context, prompt string) (models.AssistantReply, error) {
	return models.AssistantReply{Text: s.reply}, s.err
}

func TestRunSend_PlainText(t *testing.T) {
	var out bytes.Buffer
	err := runSend(context.Background(), &out, stubFetcher{reply: "Hello!"}, zerolog.Nop(), "Hi", false)
	require.NoError(t, err)

	assert.Equal(t, "You: Hi\nAI: Hello!\n", out.String())
}

func TestRunSend_HTML(t *testing.T) {
	var out bytes.Buffer
	err := runSend(context.Background(), &out, stubFetcher{reply: "<b>hey</b>"}, zerolog.Nop(), "Hi", true)
	require.NoError(t, err)

	assert.Equal(t,
		`<div id="chat-box">`+
			`<div class="message-bubble user-message"><span class="message-sender">You:</span> Hi</div>`+
			`<div class="message-bubble ai-message"><span class="message-sender">AI:</span> &lt;b&gt;hey&lt;/b&gt;</div>`+
			"</div>\n",
		out.String())
}

func TestRunSend_ErrorIsNotFatal(t *testing.T) {
	var out, logs bytes.Buffer
	err := runSend(context.Background(), &out, stubFetcher{err: errors.New("boom")}, zerolog.New(&logs), "Test", false)
	require.NoError(t, err)

	assert.Equal(t, "You: Test\nAI: "+widget.ErrorReplyText+"\n", out.String())
	assert.Contains(t, logs.String(), "boom")
}

func TestSendCommand_UsesEndpointFlag(t *testing.T) {
	r := chi.NewRouter()
	r.Post(services.ChatPath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"echo: ` + r.URL.Query().Get("prompt") + `"}`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	t.Setenv("LOG_LEVEL", "error")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"send", "--endpoint", srv.URL, "hello", "there"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Equal(t, "You: hello there\nAI: echo: hello there\n", out.String())
}

func TestSendCommand_RejectsBadEndpoint(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"send", "--endpoint", "localhost", "hi"})

	assert.Error(t, cmd.ExecuteContext(context.Background()))
}

func TestSendCommand_RequiresMessage(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"send"})

	assert.Error(t, cmd.ExecuteContext(context.Background()))
}
