package model

import "github.com/google/uuid"

type MessageSource string

const (
	MessageSourceUser      = MessageSource("user")
	MessageSourceAssistant = MessageSource("assistant")
)

type Message struct {
	Source MessageSource
	Body   string
}

// AIChat is the oracle conversation of one storefront session. ChatID equals the session id.
type AIChat struct {
	ChatID           uuid.UUID
	Messages         []Message
	Model            string
	ModelTemperature float32
}
