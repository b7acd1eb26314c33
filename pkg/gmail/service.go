package gmail

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	triagedomain "pulseboard-backend/internal/triage/domain"
	googlex "pulseboard-backend/pkg/google"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// headerFetchConcurrency bounds parallel header fetches against the Gmail API.
const headerFetchConcurrency = 10

type Service struct {
	clientID     string
	clientSecret string
}

type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback triagedomain.TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.callback != nil && s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.callback(t); err != nil {
			fmt.Printf("Failed to update token: %v\n", err)
		}
	}
	return t, nil
}

func NewService(clientID, clientSecret string) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// newGmailClient creates a Gmail client with the user's credential
func (s *Service) newGmailClient(ctx context.Context, cred triagedomain.Credential) (*gmail.Service, error) {
	token := &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		TokenType:    "Bearer",
	}

	// Only force refresh if we have a refresh token
	if cred.RefreshToken != "" {
		token.Expiry = time.Now()
	}

	config := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}

	tokenSource := config.TokenSource(ctx, token)

	// Wrap token source to detect refreshes
	wrappedSource := &notifyTokenSource{
		src:      tokenSource,
		current:  token,
		callback: cred.OnRefresh,
	}

	client := oauth2.NewClient(ctx, wrappedSource)

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %v", err)
	}

	return srv, nil
}

// ListRecent returns the newest n inbox messages, header metadata only.
func (s *Service) ListRecent(ctx context.Context, cred triagedomain.Credential, n int64) ([]triagedomain.InboxMessage, error) {
	return s.listByLabel(ctx, cred, "INBOX", n)
}

// ListStarred returns the newest n starred messages, header metadata only.
func (s *Service) ListStarred(ctx context.Context, cred triagedomain.Credential, n int64) ([]triagedomain.InboxMessage, error) {
	return s.listByLabel(ctx, cred, "STARRED", n)
}

func (s *Service) listByLabel(ctx context.Context, cred triagedomain.Credential, labelID string, n int64) ([]triagedomain.InboxMessage, error) {
	srv, err := s.newGmailClient(ctx, cred)
	if err != nil {
		return nil, err
	}

	resp, err := srv.Users.Messages.List("me").LabelIds(labelID).MaxResults(n).Context(ctx).Do()
	if err != nil {
		return nil, googlex.MapError(err)
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}

	return s.fetchHeaders(ctx, srv, ids)
}

// ListSince performs the incremental fetch: new inbox arrivals recorded in
// the Gmail change log after the given cursor. An expired cursor is reported
// through EmailChanges.Expired, never as an error, so the caller can fall
// back to a full resync.
func (s *Service) ListSince(ctx context.Context, cred triagedomain.Credential, cursor string) (*triagedomain.EmailChanges, error) {
	srv, err := s.newGmailClient(ctx, cred)
	if err != nil {
		return nil, err
	}

	startID, err := strconv.ParseUint(cursor, 10, 64)
	if err != nil {
		// Unreadable cursor behaves like an expired one.
		return &triagedomain.EmailChanges{Expired: true}, nil
	}

	var ids []string
	var newCursor uint64
	pageToken := ""
	for {
		call := srv.Users.History.List("me").
			StartHistoryId(startID).
			HistoryTypes("messageAdded").
			LabelId("INBOX").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			if googlex.IsHistoryExpired(err) {
				return &triagedomain.EmailChanges{Expired: true}, nil
			}
			return nil, googlex.MapError(err)
		}

		if resp.HistoryId > newCursor {
			newCursor = resp.HistoryId
		}
		for _, h := range resp.History {
			for _, added := range h.MessagesAdded {
				if added.Message != nil && hasLabel(added.Message.LabelIds, "INBOX") {
					ids = append(ids, added.Message.Id)
				}
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	if newCursor == 0 {
		// No changes since the cursor; keep the old position.
		newCursor = startID
	}

	messages, err := s.fetchHeaders(ctx, srv, dedupe(ids))
	if err != nil {
		return nil, err
	}

	return &triagedomain.EmailChanges{
		Messages:  messages,
		NewCursor: strconv.FormatUint(newCursor, 10),
	}, nil
}

// CurrentCursor returns the mailbox's present change-log position.
func (s *Service) CurrentCursor(ctx context.Context, cred triagedomain.Credential) (string, error) {
	srv, err := s.newGmailClient(ctx, cred)
	if err != nil {
		return "", err
	}

	profile, err := srv.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return "", googlex.MapError(err)
	}
	return strconv.FormatUint(profile.HistoryId, 10), nil
}

// fetchHeaders loads header metadata for the given message IDs, fanning out
// in small chunks to bound provider-side concurrency. Messages that fail to
// fetch are skipped.
func (s *Service) fetchHeaders(ctx context.Context, srv *gmail.Service, ids []string) ([]triagedomain.InboxMessage, error) {
	if len(ids) == 0 {
		return []triagedomain.InboxMessage{}, nil
	}

	type headerResult struct {
		msg *triagedomain.InboxMessage
		err error
	}

	resultChan := make(chan headerResult, len(ids))
	semaphore := make(chan struct{}, headerFetchConcurrency)

	for _, id := range ids {
		go func(msgID string) {
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			full, err := srv.Users.Messages.Get("me", msgID).
				Format("metadata").
				MetadataHeaders("Subject", "From").
				Context(ctx).
				Do()
			if err != nil {
				resultChan <- headerResult{nil, err}
				return
			}

			msg := convertMessage(full)
			resultChan <- headerResult{&msg, nil}
		}(id)
	}

	messages := make([]triagedomain.InboxMessage, 0, len(ids))
	for i := 0; i < len(ids); i++ {
		result := <-resultChan
		if result.err == nil && result.msg != nil {
			messages = append(messages, *result.msg)
		}
	}

	// Parallel fetching returns messages in random order
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].ReceivedAt.After(messages[j].ReceivedAt)
	})

	return messages, nil
}

func convertMessage(msg *gmail.Message) triagedomain.InboxMessage {
	from := getHeader(msg.Payload, "From")
	subject := getHeader(msg.Payload, "Subject")

	preview := strings.Join(strings.Fields(msg.Snippet), " ")
	// Cut on rune boundaries; snippets are often non-ASCII.
	if runes := []rune(preview); len(runes) > 200 {
		preview = string(runes[:200]) + "..."
	}

	return triagedomain.InboxMessage{
		ID:         msg.Id,
		ThreadID:   msg.ThreadId,
		Subject:    subject,
		From:       from,
		Preview:    preview,
		ReceivedAt: time.Unix(msg.InternalDate/1000, 0),
		IsStarred:  hasLabel(msg.LabelIds, "STARRED"),
	}
}

func getHeader(payload *gmail.MessagePart, name string) string {
	if payload == nil {
		return ""
	}
	for _, header := range payload.Headers {
		if header.Name == name {
			return header.Value
		}
	}
	return ""
}

func hasLabel(labels []string, labelID string) bool {
	for _, label := range labels {
		if label == labelID {
			return true
		}
	}
	return false
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
