package mailbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"
)

// IMAPMailbox implements Mailbox over an IMAP server.
type IMAPMailbox struct {
	host         string
	port         string
	username     string
	password     string
	tls          bool
	draftsFolder string
}

// NewIMAP creates an IMAP mailbox adapter. Each operation dials a fresh
// connection and logs out when done.
func NewIMAP(
	host, port, username, password string,
	useTLS bool,
	draftsFolder string,
) *IMAPMailbox {
	if draftsFolder == "" {
		draftsFolder = "Drafts"
	}
	return &IMAPMailbox{
		host:         host,
		port:         port,
		username:     username,
		password:     password,
		tls:          useTLS,
		draftsFolder: draftsFolder,
	}
}

// connect establishes a connection to the IMAP server, authenticates,
// and returns the connected client. The caller is responsible for
// calling Logout on the returned client.
func (m *IMAPMailbox) connect(_ context.Context) (*imapclient.Client, error) {
	addr := m.host + ":" + m.port

	var client *imapclient.Client
	var err error

	if m.tls {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(m.username, m.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, &AuthError{
			Message: fmt.Sprintf(
				"authentication failed for %s: %v", m.username, err,
			),
		}
	}

	return client, nil
}

// ListFolders returns all mailbox folder names.
func (m *IMAPMailbox) ListFolders(ctx context.Context) ([]string, error) {
	client, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	listCmd := client.List("", "*", nil)
	mailboxes, err := listCmd.Collect()
	if err != nil {
		return nil, fmt.Errorf("listing folders: %w", err)
	}

	folders := make([]string, 0, len(mailboxes))
	for _, mb := range mailboxes {
		folders = append(folders, mb.Mailbox)
	}
	return folders, nil
}

// FetchUnread returns up to max unread messages from folder, newest
// first.
func (m *IMAPMailbox) FetchUnread(
	ctx context.Context, folder string, max int,
) ([]Message, error) {
	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
	}
	return m.search(ctx, folder, criteria, max)
}

// FetchFromSender returns up to max messages received from the given
// address, newest first. The search covers the configured folder's
// whole history, not just unread mail.
func (m *IMAPMailbox) FetchFromSender(
	ctx context.Context, sender string, max int,
) ([]Message, error) {
	criteria := &imap.SearchCriteria{
		Header: []imap.SearchCriteriaHeaderField{
			{Key: "From", Value: sender},
		},
	}
	return m.search(ctx, "INBOX", criteria, max)
}

// search selects folder, runs the UID search, and fetches envelope and
// body data for the matching messages. Messages that fail to collect
// are skipped rather than aborting the batch.
func (m *IMAPMailbox) search(
	ctx context.Context,
	folder string,
	criteria *imap.SearchCriteria,
	max int,
) ([]Message, error) {
	client, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	if folder == "" {
		folder = "INBOX"
	}
	if _, err := client.Select(folder, nil).Wait(); err != nil {
		return nil, fmt.Errorf("selecting %s: %w", folder, err)
	}

	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching messages: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}

	// Keep the most recent UIDs.
	if max > 0 && len(uids) > max {
		uids = uids[len(uids)-max:]
	}

	uidSet := imap.UIDSetNum(uids...)

	bodySection := &imap.FetchItemBodySection{Peek: true}
	fetchOpts := &imap.FetchOptions{
		Envelope:    true,
		Flags:       true,
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := client.Fetch(uidSet, fetchOpts)
	defer fetchCmd.Close()

	var messages []Message
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}

		buf, err := msg.Collect()
		if err != nil {
			continue
		}

		message := messageFromBuffer(buf, bodySection)
		messages = append(messages, message)
	}

	if err := fetchCmd.Close(); err != nil {
		return messages, fmt.Errorf("fetching messages: %w", err)
	}

	// Newest first.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// CreateDraftReply fetches the original message, composes a reply with
// threading headers, and appends it to the drafts folder with the
// \Draft flag. Nothing is sent.
func (m *IMAPMailbox) CreateDraftReply(
	ctx context.Context, id string, body string,
) error {
	uid, err := parseUID(id)
	if err != nil {
		return err
	}

	client, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Logout().Wait() }()

	if _, err := client.Select("INBOX", nil).Wait(); err != nil {
		return fmt.Errorf("selecting INBOX: %w", err)
	}

	uidSet := imap.UIDSetNum(imap.UID(uid))
	fetchOpts := &imap.FetchOptions{Envelope: true, UID: true}

	fetchCmd := client.Fetch(uidSet, fetchOpts)
	msg := fetchCmd.Next()
	if msg == nil {
		fetchCmd.Close()
		return fmt.Errorf("message UID %d not found", uid)
	}
	buf, err := msg.Collect()
	if err != nil {
		fetchCmd.Close()
		return fmt.Errorf("collecting message data: %w", err)
	}
	if err := fetchCmd.Close(); err != nil {
		return fmt.Errorf("closing fetch: %w", err)
	}

	if buf.Envelope == nil || len(buf.Envelope.From) == 0 {
		return fmt.Errorf("message UID %d has no envelope sender", uid)
	}

	draft := composeReply(
		m.username,
		buf.Envelope.From[0].Addr(),
		buf.Envelope.Subject,
		buf.Envelope.MessageID,
		body,
	)

	appendCmd := client.Append(
		m.draftsFolder,
		int64(len(draft)),
		&imap.AppendOptions{
			Flags: []imap.Flag{imap.FlagDraft},
			Time:  time.Now(),
		},
	)
	if _, err := appendCmd.Write([]byte(draft)); err != nil {
		return fmt.Errorf("writing draft: %w", err)
	}
	if err := appendCmd.Close(); err != nil {
		return fmt.Errorf("closing draft append: %w", err)
	}
	if _, err := appendCmd.Wait(); err != nil {
		return fmt.Errorf("appending draft to %s: %w", m.draftsFolder, err)
	}

	return nil
}

// composeReply builds an RFC 5322 reply message body with threading
// headers so mail clients keep the draft in the original conversation.
func composeReply(from, to, subject, messageID, body string) string {
	if !strings.HasPrefix(strings.ToLower(subject), "re:") {
		subject = "Re: " + subject
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	if messageID != "" {
		msg.WriteString(fmt.Sprintf("In-Reply-To: <%s>\r\n", messageID))
		msg.WriteString(fmt.Sprintf("References: <%s>\r\n", messageID))
	}
	msg.WriteString(fmt.Sprintf(
		"Date: %s\r\n", time.Now().Format(time.RFC1123Z),
	))
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	return msg.String()
}

// messageFromBuffer extracts a Message from a fetched buffer, parsing
// the MIME body and preferring plain text over stripped HTML.
func messageFromBuffer(
	buf *imapclient.FetchMessageBuffer,
	bodySection *imap.FetchItemBodySection,
) Message {
	message := Message{
		ID: strconv.FormatUint(uint64(buf.UID), 10),
	}

	if buf.Envelope != nil {
		message.Subject = buf.Envelope.Subject
		message.Received = buf.Envelope.Date

		if len(buf.Envelope.From) > 0 {
			from := buf.Envelope.From[0]
			message.SenderName = from.Name
			message.SenderAddr = from.Addr()
			if message.SenderName == "" {
				message.SenderName = message.SenderAddr
			}
		}
	}

	rawBody := buf.FindBodySection(bodySection)
	if rawBody != nil {
		textBody, htmlBody := parseMIMEBody(rawBody)
		if textBody != "" {
			message.Body = textBody
		} else {
			message.Body = stripHTML(htmlBody)
		}
	}

	return message
}

// parseMIMEBody parses a raw RFC 2822 message body using go-message and
// extracts the text/plain and text/html parts.
func parseMIMEBody(raw []byte) (textBody string, htmlBody string) {
	reader := bytes.NewReader(raw)

	mr, err := mail.CreateReader(reader)
	if err != nil {
		// If parsing fails, try treating the whole thing as plain text
		return string(raw), ""
	}
	defer mr.Close()

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, _ := header.ContentType()
		body, readErr := io.ReadAll(part.Body)
		if readErr != nil {
			continue
		}

		switch {
		case strings.HasPrefix(contentType, "text/plain"):
			textBody = string(body)
		case strings.HasPrefix(contentType, "text/html"):
			htmlBody = string(body)
		}
	}

	return textBody, htmlBody
}

// parseUID converts a string message ID to a uint32 IMAP UID.
func parseUID(id string) (uint32, error) {
	uid, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid message ID %q: %w", id, err)
	}
	return uint32(uid), nil
}

// htmlTagPattern matches HTML tags for stripping.
var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTML removes HTML tags from a string and decodes common
// entities, providing a basic plain-text rendering.
func stripHTML(html string) string {
	if html == "" {
		return ""
	}

	result := html
	for _, tag := range []string{
		"<br>", "<br/>", "<br />", "</p>", "</div>", "</li>",
	} {
		result = strings.ReplaceAll(result, tag, "\n")
	}

	result = htmlTagPattern.ReplaceAllString(result, "")

	replacer := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
	result = replacer.Replace(result)

	for strings.Contains(result, "\n\n\n") {
		result = strings.ReplaceAll(result, "\n\n\n", "\n\n")
	}

	return strings.TrimSpace(result)
}
