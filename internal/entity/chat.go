package entity

// ChatRole identifies who produced a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMode is the generative AI behavior selected for a message.
type ChatMode string

const (
	// ChatModeJSON answers from the structured technical context.
	ChatModeJSON ChatMode = "json"
	// ChatModeVision answers after analyzing an attached chart image.
	ChatModeVision ChatMode = "vision"
	// ChatModeVisionFallback is used when vision analysis failed and the
	// answer was generated from the JSON context instead.
	ChatModeVisionFallback ChatMode = "vision_fallback"
)

// ChatMessage is one message in a per-ticker conversation.
type ChatMessage struct {
	Role           ChatRole `json:"role"`
	Content        string   `json:"content"`
	Mode           ChatMode `json:"mode,omitempty"`
	ProcessingTime float64  `json:"processing_time,omitempty"`
}

// ChatExchange pairs a user question with the assistant answer.
type ChatExchange struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}
