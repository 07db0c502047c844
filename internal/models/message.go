package models

import "time"

type Message struct {
	ID         string
	EmitterID  string
	ReceiverID string
	Text       string
	Viewed     bool
	CreatedAt  time.Time
}

type MessageView struct {
	Message
	Emitter  UserSummary
	Receiver UserSummary
}
