package models

// Sender labels shown at the start of every bubble.
const (
	UserSender      = "You:"
	AssistantSender = "AI:"
)

// BubbleKind selects the presentation of a rendered turn.
type BubbleKind string

const (
	UserBubble      BubbleKind = "user"
	AssistantBubble BubbleKind = "ai"
)

// UserMessage is the trimmed, non-empty text the user submitted.
type UserMessage struct {
	Text string
}

// AssistantReply is the text the backend returned for a prompt.
type AssistantReply struct {
	Text string
}

// ChatResponse is the body returned by the backend /chat endpoint.
// Response is nil when the field is absent.
type ChatResponse struct {
	Response *string `json:"response"`
}

// Bubble is one rendered turn in the message list.
type Bubble struct {
	Kind   BubbleKind
	Sender string
	Text   string
}

// NewUserBubble builds the bubble for a submitted message.
func NewUserBubble(msg UserMessage) Bubble {
	return Bubble{Kind: UserBubble, Sender: UserSender, Text: msg.Text}
}

// NewAssistantBubble builds the bubble for a backend reply.
func NewAssistantBubble(reply AssistantReply) Bubble {
	return Bubble{Kind: AssistantBubble, Sender: AssistantSender, Text: reply.Text}
}
