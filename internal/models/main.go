// Package models defines the core data structures for messages, questions and answers.
package models

import "time"

// MessageStatus defines the lifecycle state of a mail message.
type MessageStatus string

const (
	// MessageDraft marks a message that has been composed but not sent.
	MessageDraft MessageStatus = "DRAFT"
	// MessageSent marks a message that has been delivered to its recipient.
	MessageSent MessageStatus = "SENT"
	// MessageDeleted marks a soft-deleted message kept in storage but hidden from views.
	MessageDeleted MessageStatus = "DELETED"
)

// Message represents a single mail message.
type Message struct {
	// ID is the unique, monotonically assigned identifier of the message.
	ID int64
	// From is the username of the sender.
	From string
	// To is the username of the recipient. Empty on an unaddressed draft.
	To string
	// Subject is the message subject line.
	Subject string
	// Body is the message text.
	Body string
	// SentAt is when the message was sent, or last saved for a draft.
	SentAt time.Time
	// Read reports whether the recipient has opened the message.
	Read bool
	// Status is the lifecycle state of the message.
	Status MessageStatus
}

// QuestionStatus defines the derived lifecycle state of a question.
type QuestionStatus string

const (
	// QuestionOpen means the question has no answers yet.
	QuestionOpen QuestionStatus = "OPEN"
	// QuestionInProgress means the question has answers but none accepted.
	QuestionInProgress QuestionStatus = "IN_PROGRESS"
	// QuestionAnswered means exactly one answer has been accepted.
	QuestionAnswered QuestionStatus = "ANSWERED"
)

// Question represents a forum question. Status is derived from the
// question's answer set and is never set directly by a caller.
type Question struct {
	// ID is the unique, monotonically assigned identifier of the question.
	ID int64
	// Title is the question title.
	Title string
	// Body is the question text.
	Body string
	// Author is the username of the asker.
	Author string
	// CreatedAt is when the question was posted.
	CreatedAt time.Time
	// Status is the derived lifecycle state.
	Status QuestionStatus
}

// Answer represents a forum answer. At most one answer per question may
// have Accepted set at any time.
type Answer struct {
	// ID is the unique, monotonically assigned identifier of the answer.
	ID int64
	// QuestionID is the ID of the parent question.
	QuestionID int64
	// Body is the answer text.
	Body string
	// Author is the username of the answerer.
	Author string
	// CreatedAt is when the answer was posted.
	CreatedAt time.Time
	// Accepted reports whether the question author marked this answer as the resolution.
	Accepted bool
}
