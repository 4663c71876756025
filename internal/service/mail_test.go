package service

import (
	"context"
	"testing"

	"github.com/atinyakov/ForumDesk/internal/models"
)

type mockMailRepo struct {
	ComposeFunc   func(ctx context.Context, from, to, subject, body string) (int64, error)
	SendFunc      func(ctx context.Context, from, to, subject, body string) (int64, error)
	SendDraftFunc func(ctx context.Context, id int64) error
	InboxFunc     func(ctx context.Context, username string) ([]models.Message, error)
	SentItemsFunc func(ctx context.Context, username string) ([]models.Message, error)
	DraftsFunc    func(ctx context.Context, username string) ([]models.Message, error)
	MarkReadFunc  func(ctx context.Context, id int64, username string) error
	DeleteFunc    func(ctx context.Context, id int64, username string) error
}

func (m *mockMailRepo) Compose(ctx context.Context, from, to, subject, body string) (int64, error) {
	return m.ComposeFunc(ctx, from, to, subject, body)
}
func (m *mockMailRepo) Send(ctx context.Context, from, to, subject, body string) (int64, error) {
	return m.SendFunc(ctx, from, to, subject, body)
}
func (m *mockMailRepo) SendDraft(ctx context.Context, id int64) error {
	return m.SendDraftFunc(ctx, id)
}
func (m *mockMailRepo) Inbox(ctx context.Context, username string) ([]models.Message, error) {
	return m.InboxFunc(ctx, username)
}
func (m *mockMailRepo) SentItems(ctx context.Context, username string) ([]models.Message, error) {
	return m.SentItemsFunc(ctx, username)
}
func (m *mockMailRepo) Drafts(ctx context.Context, username string) ([]models.Message, error) {
	return m.DraftsFunc(ctx, username)
}
func (m *mockMailRepo) MarkRead(ctx context.Context, id int64, username string) error {
	return m.MarkReadFunc(ctx, id, username)
}
func (m *mockMailRepo) Delete(ctx context.Context, id int64, username string) error {
	return m.DeleteFunc(ctx, id, username)
}

func TestMailService_ComposeDelegates(t *testing.T) {
	repo := &mockMailRepo{
		ComposeFunc: func(ctx context.Context, from, to, subject, body string) (int64, error) {
			if from != "alice" || to != "" {
				t.Errorf("Compose received from=%q to=%q; want alice and empty", from, to)
			}
			return 7, nil
		},
	}
	svc := NewMailService(repo)

	id, err := svc.Compose(context.Background(), "alice", "", "s", "b")
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	if id != 7 {
		t.Errorf("Compose id = %d; want 7", id)
	}
}

func TestMailService_InboxDelegates(t *testing.T) {
	want := []models.Message{{ID: 1, To: "bob"}}
	repo := &mockMailRepo{
		InboxFunc: func(ctx context.Context, username string) ([]models.Message, error) {
			if username != "bob" {
				t.Errorf("Inbox received %q; want bob", username)
			}
			return want, nil
		},
	}
	svc := NewMailService(repo)

	got, err := svc.Inbox(context.Background(), "bob")
	if err != nil {
		t.Fatalf("Inbox returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("Inbox = %+v; want %+v", got, want)
	}
}

func TestMailService_DeleteDelegates(t *testing.T) {
	called := false
	repo := &mockMailRepo{
		DeleteFunc: func(ctx context.Context, id int64, username string) error {
			called = true
			if id != 3 || username != "bob" {
				t.Errorf("Delete received id=%d user=%q; want 3/bob", id, username)
			}
			return nil
		},
	}
	svc := NewMailService(repo)

	if err := svc.Delete(context.Background(), 3, "bob"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if !called {
		t.Fatal("expected Delete to be called on repo")
	}
}
