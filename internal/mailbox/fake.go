package mailbox

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Fake is an in-memory Mailbox used as the primary test double and by
// connectivity checks that must not touch a real server.
type Fake struct {
	mu sync.Mutex

	Folders  []string
	Messages []Message

	// Unread marks which message IDs count as unread.
	Unread map[string]bool

	// Drafts records bodies passed to CreateDraftReply, keyed by
	// message ID.
	Drafts map[string]string

	// FetchErr, when set, is returned by all fetch operations.
	FetchErr error
}

// NewFake returns an empty fake mailbox.
func NewFake() *Fake {
	return &Fake{
		Folders: []string{"INBOX", "Sent", "Drafts"},
		Unread:  make(map[string]bool),
		Drafts:  make(map[string]string),
	}
}

// Add appends a message, optionally marking it unread.
func (f *Fake) Add(msg Message, unread bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Messages = append(f.Messages, msg)
	if unread {
		f.Unread[msg.ID] = true
	}
}

// ListFolders implements Mailbox.
func (f *Fake) ListFolders(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	return append([]string(nil), f.Folders...), nil
}

// FetchUnread implements Mailbox.
func (f *Fake) FetchUnread(
	_ context.Context, _ string, max int,
) ([]Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}

	var out []Message
	for _, msg := range f.Messages {
		if !f.Unread[msg.ID] {
			continue
		}
		out = append(out, msg)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out, nil
}

// FetchFromSender implements Mailbox.
func (f *Fake) FetchFromSender(
	_ context.Context, sender string, max int,
) ([]Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}

	want := strings.ToLower(strings.TrimSpace(sender))

	var out []Message
	for _, msg := range f.Messages {
		if strings.ToLower(strings.TrimSpace(msg.SenderAddr)) != want {
			continue
		}
		out = append(out, msg)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out, nil
}

// CreateDraftReply implements Mailbox.
func (f *Fake) CreateDraftReply(
	_ context.Context, id string, body string,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, msg := range f.Messages {
		if msg.ID == id {
			f.Drafts[id] = body
			return nil
		}
	}
	return fmt.Errorf("message %s not found", id)
}
