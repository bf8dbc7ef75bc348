// Package widget drives the chat widget: it reads the input field, appends
// bubbles to the message list and asks the backend for a reply.
package widget

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"chat-widget/internal/models"
)

// ErrorReplyText is shown in place of a reply whenever the backend call fails.
const ErrorReplyText = "Error: Failed to get a response. Please try again."

// EnterKey is the key name that submits the input field.
const EnterKey = "Enter"

// InputField is the text box the user types into.
type InputField interface {
	Value() string
	SetValue(string)
}

// MessageList is the scrollable container that accumulates bubbles.
type MessageList interface {
	Append(models.Bubble)
	ScrollToBottom()
}

// ReplyFetcher asks the backend for the reply to a prompt.
type ReplyFetcher interface {
	Ask(ctx context.Context, prompt string) (models.AssistantReply, error)
}

// Dispatcher runs f on the host's UI thread.
type Dispatcher interface {
	Dispatch(f func())
}

// DispatchFunc adapts a function to Dispatcher.
type DispatchFunc func(f func())

func (d DispatchFunc) Dispatch(f func()) { d(f) }

// Inline runs f on the calling goroutine. Suitable for hosts whose
// InputField and MessageList are safe for concurrent use.
var Inline Dispatcher = DispatchFunc(func(f func()) { f() })

type Controller struct {
	input   InputField
	list    MessageList
	fetcher ReplyFetcher
	ui      Dispatcher
	log     zerolog.Logger
}

type Option func(*Controller)

// WithDispatcher sets where completion steps run. Defaults to Inline.
func WithDispatcher(d Dispatcher) Option {
	return func(c *Controller) { c.ui = d }
}

// WithLogger sets the diagnostic channel. Defaults to a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

func NewController(input InputField, list MessageList, fetcher ReplyFetcher, opts ...Option) *Controller {
	c := &Controller{
		input:   input,
		list:    list,
		fetcher: fetcher,
		ui:      Inline,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HandleKey reacts to a keypress in the input field. Only Enter sends.
func (c *Controller) HandleKey(ctx context.Context, key string) <-chan struct{} {
	if key != EnterKey {
		return closed()
	}
	return c.SendMessage(ctx)
}

// SendMessage submits the current input. It must be called on the UI
// thread; it appends the user bubble before returning and requests the
// reply in the background. The returned channel is closed once the reply
// or error bubble has been appended, or immediately if the input is blank.
//
// Calls are not serialized: each one issues its own request and replies
// land in completion order.
func (c *Controller) SendMessage(ctx context.Context) <-chan struct{} {
	text := strings.TrimSpace(c.input.Value())
	if text == "" {
		return closed()
	}
	msg := models.UserMessage{Text: text}

	c.list.Append(models.NewUserBubble(msg))
	c.input.SetValue("")
	c.list.ScrollToBottom()

	requestID := uuid.NewString()
	c.log.Debug().Str("request_id", requestID).Int("prompt_len", len(msg.Text)).Msg("Sending chat request")

	done := make(chan struct{})
	go func() {
		reply, err := c.fetcher.Ask(ctx, msg.Text)
		c.ui.Dispatch(func() {
			defer close(done)
			c.finish(requestID, reply, err)
		})
	}()
	return done
}

func (c *Controller) finish(requestID string, reply models.AssistantReply, err error) {
	defer c.list.ScrollToBottom()

	if err != nil {
		c.log.Error().Err(err).Str("request_id", requestID).Msg("Error fetching AI response")
		c.list.Append(models.NewAssistantBubble(models.AssistantReply{Text: ErrorReplyText}))
		return
	}

	c.log.Debug().Str("request_id", requestID).Msg("Chat reply received")
	c.list.Append(models.NewAssistantBubble(reply))
}

func closed() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
