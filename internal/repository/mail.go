package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/atinyakov/ForumDesk/internal/clock"
	"github.com/atinyakov/ForumDesk/internal/models"
)

// MemoryMailRepository holds mail messages in an id-indexed in-memory table.
// Deleted messages stay in storage as tombstones and are filtered from views.
type MemoryMailRepository struct {
	mu sync.Mutex

	clock    clock.Clock
	messages map[int64]models.Message
	nextID   int64
}

// NewMemoryMailRepository creates an empty mail store. clk must not be nil.
func NewMemoryMailRepository(clk clock.Clock) *MemoryMailRepository {
	return &MemoryMailRepository{
		clock:    clk,
		messages: make(map[int64]models.Message),
		nextID:   1,
	}
}

// Compose creates a draft message and returns its id. Recipient, subject
// and body may be empty; they are stored as empty strings.
func (r *MemoryMailRepository) Compose(ctx context.Context, from, to, subject, body string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.add(from, to, subject, body, models.MessageDraft), nil
}

// Send creates a message already marked sent with the current timestamp
// and returns its id.
func (r *MemoryMailRepository) Send(ctx context.Context, from, to, subject, body string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.add(from, to, subject, body, models.MessageSent), nil
}

func (r *MemoryMailRepository) add(from, to, subject, body string, status models.MessageStatus) int64 {
	id := r.nextID
	r.nextID++
	r.messages[id] = models.Message{
		ID:      id,
		From:    from,
		To:      to,
		Subject: subject,
		Body:    body,
		SentAt:  r.clock.Now(),
		Status:  status,
	}
	return id
}

// SendDraft transitions a draft to sent, refreshing the sent timestamp,
// but only when both recipient and subject are non-blank after trimming.
// Missing ids, non-drafts and unaddressed drafts are silently ignored.
func (r *MemoryMailRepository) SendDraft(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok || m.Status != models.MessageDraft {
		return nil
	}
	if isBlank(m.To) || isBlank(m.Subject) {
		return nil
	}
	m.Status = models.MessageSent
	m.SentAt = r.clock.Now()
	r.messages[id] = m
	return nil
}

// Inbox returns all non-deleted messages addressed to the username,
// most recent first.
func (r *MemoryMailRepository) Inbox(ctx context.Context, username string) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(m models.Message) bool {
		return m.To == username && m.Status != models.MessageDeleted
	}), nil
}

// SentItems returns all sent messages from the username, most recent first.
func (r *MemoryMailRepository) SentItems(ctx context.Context, username string) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(m models.Message) bool {
		return m.From == username && m.Status == models.MessageSent
	}), nil
}

// Drafts returns all draft messages of the username, most recent first.
func (r *MemoryMailRepository) Drafts(ctx context.Context, username string) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(m models.Message) bool {
		return m.From == username && m.Status == models.MessageDraft
	}), nil
}

func (r *MemoryMailRepository) collect(keep func(models.Message) bool) []models.Message {
	out := make([]models.Message, 0)
	for _, m := range r.messages {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].SentAt.After(out[j].SentAt)
	})
	return out
}

// MarkRead sets the read flag, but only when the message's recipient
// matches username. Anything else is a silent no-op.
func (r *MemoryMailRepository) MarkRead(ctx context.Context, id int64, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok || m.To != username {
		return nil
	}
	m.Read = true
	r.messages[id] = m
	return nil
}

// Delete flips the message's status to deleted when username is either the
// sender or the recipient. The flip is shared: deleting from one side
// removes the message from both inbox and sent views.
func (r *MemoryMailRepository) Delete(ctx context.Context, id int64, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok || (m.From != username && m.To != username) {
		return nil
	}
	m.Status = models.MessageDeleted
	r.messages[id] = m
	return nil
}
