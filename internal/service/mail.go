package service

import (
	"context"

	"github.com/atinyakov/ForumDesk/internal/models"
)

// MailRepository defines the storage operations needed by the MailService.
type MailRepository interface {
	// Compose creates a draft and returns its id.
	Compose(ctx context.Context, from, to, subject, body string) (int64, error)
	// Send creates an already-sent message and returns its id.
	Send(ctx context.Context, from, to, subject, body string) (int64, error)
	// SendDraft promotes a draft to sent when recipient and subject are non-blank.
	SendDraft(ctx context.Context, id int64) error
	// Inbox returns non-deleted messages addressed to the user, newest first.
	Inbox(ctx context.Context, username string) ([]models.Message, error)
	// SentItems returns sent messages from the user, newest first.
	SentItems(ctx context.Context, username string) ([]models.Message, error)
	// Drafts returns the user's drafts, newest first.
	Drafts(ctx context.Context, username string) ([]models.Message, error)
	// MarkRead flags the message read when username is its recipient.
	MarkRead(ctx context.Context, id int64, username string) error
	// Delete tombstones the message when username is its sender or recipient.
	Delete(ctx context.Context, id int64, username string) error
}

// MailService implements mailbox operations over a MailRepository.
type MailService struct {
	repo MailRepository
}

// NewMailService constructs a MailService using the provided repository.
func NewMailService(repo MailRepository) *MailService {
	return &MailService{repo: repo}
}

// Compose saves a draft. Recipient, subject and body may be empty.
func (s *MailService) Compose(ctx context.Context, from, to, subject, body string) (int64, error) {
	return s.repo.Compose(ctx, from, to, subject, body)
}

// Send delivers a message immediately.
func (s *MailService) Send(ctx context.Context, from, to, subject, body string) (int64, error) {
	return s.repo.Send(ctx, from, to, subject, body)
}

// SendDraft promotes a draft to sent. Drafts without a recipient or
// subject stay drafts; the call is silently ignored.
func (s *MailService) SendDraft(ctx context.Context, id int64) error {
	return s.repo.SendDraft(ctx, id)
}

// Inbox lists the user's visible received messages, newest first.
func (s *MailService) Inbox(ctx context.Context, username string) ([]models.Message, error) {
	return s.repo.Inbox(ctx, username)
}

// SentItems lists the user's sent messages, newest first.
func (s *MailService) SentItems(ctx context.Context, username string) ([]models.Message, error) {
	return s.repo.SentItems(ctx, username)
}

// Drafts lists the user's drafts, newest first.
func (s *MailService) Drafts(ctx context.Context, username string) ([]models.Message, error) {
	return s.repo.Drafts(ctx, username)
}

// MarkRead flags the message read for its recipient.
func (s *MailService) MarkRead(ctx context.Context, id int64, username string) error {
	return s.repo.MarkRead(ctx, id, username)
}

// Delete tombstones the message for both sides.
func (s *MailService) Delete(ctx context.Context, id int64, username string) error {
	return s.repo.Delete(ctx, id, username)
}
