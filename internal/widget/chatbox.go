package widget

import (
	"bytes"
	"html/template"
	"strings"
	"sync"

	"chat-widget/internal/models"
)

// Element ids the widget binds to on the host page.
const (
	InputID   = "user-input"
	ChatBoxID = "chat-box"
)

var bubbleTmpl = template.Must(template.New("bubble").Parse(
	`<div class="message-bubble {{.Class}}"><span class="message-sender">{{.Sender}}</span> {{.Text}}</div>`,
))

var chatBoxTmpl = template.Must(template.New("chatbox").Parse(
	`<div id="{{.ID}}">{{.Content}}</div>`,
))

// RenderBubble renders b as an HTML fragment. The text is escaped.
func RenderBubble(b models.Bubble) (template.HTML, error) {
	class := "ai-message"
	if b.Kind == models.UserBubble {
		class = "user-message"
	}

	var buf bytes.Buffer
	err := bubbleTmpl.Execute(&buf, struct {
		Class, Sender, Text string
	}{class, b.Sender, b.Text})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// ChatBox is an in-memory message list that keeps the rendered HTML of
// every bubble. The scroll height grows by one per bubble.
type ChatBox struct {
	mu        sync.Mutex
	bubbles   []models.Bubble
	fragments []template.HTML
	scrollTop int
}

func NewChatBox() *ChatBox {
	return &ChatBox{}
}

func (b *ChatBox) Append(bubble models.Bubble) {
	frag, err := RenderBubble(bubble)
	if err != nil {
		frag = template.HTML(template.HTMLEscapeString(bubble.Sender + " " + bubble.Text))
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.bubbles = append(b.bubbles, bubble)
	b.fragments = append(b.fragments, frag)
}

func (b *ChatBox) ScrollToBottom() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scrollTop = len(b.fragments)
}

func (b *ChatBox) ScrollTop() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scrollTop
}

func (b *ChatBox) ScrollHeight() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.fragments)
}

// Bubbles returns a copy of the appended bubbles in append order.
func (b *ChatBox) Bubbles() []models.Bubble {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Bubble, len(b.bubbles))
	copy(out, b.bubbles)
	return out
}

// InnerHTML is the concatenated markup of every bubble.
func (b *ChatBox) InnerHTML() template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	var sb strings.Builder
	for _, f := range b.fragments {
		sb.WriteString(string(f))
	}
	return template.HTML(sb.String())
}

// HTML renders the whole container element.
func (b *ChatBox) HTML() (string, error) {
	var buf bytes.Buffer
	err := chatBoxTmpl.Execute(&buf, struct {
		ID      string
		Content template.HTML
	}{ChatBoxID, b.InnerHTML()})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// TextInput is an in-memory input field.
type TextInput struct {
	mu    sync.Mutex
	value string
}

func NewTextInput(value string) *TextInput {
	return &TextInput{value: value}
}

func (i *TextInput) Value() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.value
}

func (i *TextInput) SetValue(v string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.value = v
}
