package mailbox

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// AuthError indicates that mailbox authentication has failed.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "mailbox auth error: " + e.Message
}

// IsAuthError reports whether err (or any error in its chain) is an
// AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// Message is one incoming mail message. The core reads messages but
// never mutates or stores them.
type Message struct {
	// ID is the mailbox-assigned identifier, used only to address the
	// eventual draft-creation call.
	ID string

	Subject    string
	SenderName string
	SenderAddr string
	Received   time.Time
	Body       string
}

// Sender formats the sender as "Name <addr>".
func (m Message) Sender() string {
	if m.SenderName == "" {
		return m.SenderAddr
	}
	return fmt.Sprintf("%s <%s>", m.SenderName, m.SenderAddr)
}

// Mailbox is the narrow mailbox adapter boundary. The core never
// depends on a specific automation mechanism; the IMAP implementation
// and the in-memory fake both satisfy it.
type Mailbox interface {
	// ListFolders returns the available mail folder names.
	ListFolders(ctx context.Context) ([]string, error)

	// FetchUnread returns up to max unread messages from folder,
	// newest first.
	FetchUnread(ctx context.Context, folder string, max int) ([]Message, error)

	// FetchFromSender returns up to max messages received from the
	// given address, newest first.
	FetchFromSender(ctx context.Context, sender string, max int) ([]Message, error)

	// CreateDraftReply saves body as a draft reply to the message
	// identified by id. The draft is never sent automatically.
	CreateDraftReply(ctx context.Context, id string, body string) error
}
