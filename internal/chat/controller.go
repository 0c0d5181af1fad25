// Package chat manages the AI refinement conversation for one generated
// paper: serialized sends, optimistic transcript entries, and best-effort
// client-side cancellation.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/sanjitmathur/ExamForge/pkg/domain"
)

var (
	// ErrBusy means a send is already in flight; the caller's message was
	// not submitted and had no network effect.
	ErrBusy = errors.New("chat: send already in flight")
	// ErrEmptyMessage means the trimmed message was blank.
	ErrEmptyMessage = errors.New("chat: empty message")
	// ErrStopped means the in-flight send was aborted client-side.
	ErrStopped = errors.New("chat: send stopped")
)

// Sender performs the chat exchange against the backend.
type Sender interface {
	Send(ctx context.Context, paperID int64, message string) (domain.ChatExchange, error)
}

// Entry is one transcript row. Identity is tagged: a pending entry carries a
// locally generated id and no server id, so an optimistic placeholder can
// never be confused with a persisted message.
type Entry struct {
	Pending bool
	LocalID string // set only while Pending
	Message domain.ConversationMessage
}

// Controller is the per-paper chat state machine: idle -> sending -> idle.
// All methods are safe for concurrent use; sends are serialized by refusing
// to start while one is outstanding.
type Controller struct {
	paperID int64
	sender  Sender

	mu         sync.Mutex
	sending    bool
	cancel     context.CancelFunc
	generation uint64
	entries    []Entry
	paper      *domain.GeneratedPaper
	lastFailed string
}

// New constructs a controller for one generated paper.
func New(paperID int64, sender Sender) *Controller {
	return &Controller{paperID: paperID, sender: sender}
}

// SetPaper seeds or replaces the cached paper record.
func (c *Controller) SetPaper(p domain.GeneratedPaper) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paper = &p
}

// Paper returns the cached paper record, if loaded.
func (c *Controller) Paper() (domain.GeneratedPaper, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paper == nil {
		return domain.GeneratedPaper{}, false
	}
	return *c.paper, true
}

// SetHistory replaces the transcript with the stored conversation.
func (c *Controller) SetHistory(messages []domain.ConversationMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = confirmed(messages)
}

// Entries returns a copy of the transcript.
func (c *Controller) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Sending reports whether a send is in flight.
func (c *Controller) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// LastFailed returns the text of the most recent failed send, if any.
func (c *Controller) LastFailed() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastFailed, c.lastFailed != ""
}

// Send submits one refinement message. The optimistic user entry appears in
// the transcript before the request is issued. On success the transcript and
// paper are replaced wholesale with the server's versions. On failure the
// optimistic entry stays and one synthetic assistant error is appended.
// Blocks until the exchange settles; Stop from another goroutine aborts it.
func (c *Controller) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return ErrBusy
	}
	c.sending = true
	c.generation++
	gen := c.generation
	sendCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.entries = append(c.entries, Entry{
		Pending: true,
		LocalID: uuid.NewString(),
		Message: domain.ConversationMessage{
			GeneratedPaperID: c.paperID,
			Role:             domain.MessageRoleUser,
			Content:          text,
		},
	})
	c.mu.Unlock()

	exchange, err := c.sender.Send(sendCtx, c.paperID, text)
	// Read the abort state before releasing the context, or every failure
	// would look like a client-side cancellation.
	aborted := sendCtx.Err() != nil
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		// Stopped while in flight: state was already reset, and whatever
		// came back must not mutate it.
		return ErrStopped
	}
	c.sending = false
	c.cancel = nil
	if err != nil {
		if aborted {
			return ErrStopped
		}
		c.lastFailed = text
		c.entries = append(c.entries, Entry{
			Pending: true,
			LocalID: uuid.NewString(),
			Message: domain.ConversationMessage{
				GeneratedPaperID: c.paperID,
				Role:             domain.MessageRoleAssistant,
				Content:          errorReply(err),
			},
		})
		return err
	}
	c.lastFailed = ""
	c.entries = confirmed(exchange.Messages)
	paper := exchange.Paper
	c.paper = &paper
	return nil
}

// Stop aborts the in-flight send, if any, and returns to idle immediately.
// Cancellation is client-side only; the backend may still finish processing.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.sending {
		c.mu.Unlock()
		return
	}
	c.sending = false
	c.generation++
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func confirmed(messages []domain.ConversationMessage) []Entry {
	entries := make([]Entry, 0, len(messages))
	for _, m := range messages {
		entries = append(entries, Entry{Message: m})
	}
	return entries
}

func errorReply(err error) string {
	return "Sorry, that change could not be applied: " + err.Error()
}
