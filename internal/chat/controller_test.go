package chat

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sanjitmathur/ExamForge/pkg/domain"
)

// fakeSender scripts the backend side of an exchange.
type fakeSender struct {
	calls   int32
	block   chan struct{} // when set, Send waits here or for ctx
	respond func(message string) (domain.ChatExchange, error)
}

func (f *fakeSender) Send(ctx context.Context, paperID int64, message string) (domain.ChatExchange, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return domain.ChatExchange{}, ctx.Err()
		}
	}
	return f.respond(message)
}

func exchangeFor(paperID int64, message, reply string) domain.ChatExchange {
	return domain.ChatExchange{
		Paper: domain.GeneratedPaper{ID: paperID, Title: "Refined", Status: domain.GenerationCompleted},
		Messages: []domain.ConversationMessage{
			{ID: 10, GeneratedPaperID: paperID, Role: domain.MessageRoleUser, Content: message},
			{ID: 11, GeneratedPaperID: paperID, Role: domain.MessageRoleAssistant, Content: reply},
		},
	}
}

func TestSendReplacesTranscriptWithServerVersion(t *testing.T) {
	sender := &fakeSender{respond: func(msg string) (domain.ChatExchange, error) {
		return exchangeFor(3, msg, "done"), nil
	}}
	c := New(3, sender)
	c.SetHistory([]domain.ConversationMessage{
		{ID: 1, Role: domain.MessageRoleAssistant, Content: "hello"},
	})

	if err := c.Send(context.Background(), "make it harder"); err != nil {
		t.Fatalf("send: %v", err)
	}
	entries := c.Entries()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want the server's 2", len(entries))
	}
	for i, e := range entries {
		if e.Pending {
			t.Fatalf("entry %d still pending after confirmed exchange", i)
		}
		if e.Message.ID == 0 {
			t.Fatalf("entry %d missing server id", i)
		}
		if e.LocalID != "" {
			t.Fatalf("entry %d kept a local id after confirmation", i)
		}
	}
	paper, ok := c.Paper()
	if !ok || paper.Title != "Refined" {
		t.Fatalf("paper not replaced by exchange: %+v ok=%v", paper, ok)
	}
	if c.Sending() {
		t.Fatal("still sending after completion")
	}
}

func TestSendAppendsOptimisticEntryBeforeNetwork(t *testing.T) {
	block := make(chan struct{})
	sender := &fakeSender{block: block, respond: func(msg string) (domain.ChatExchange, error) {
		return exchangeFor(3, msg, "ok"), nil
	}}
	c := New(3, sender)

	done := make(chan error, 1)
	go func() { done <- c.Send(context.Background(), "tweak q2") }()

	waitForEntries(t, c, 1)
	e := c.Entries()[0]
	if !e.Pending || e.LocalID == "" {
		t.Fatalf("optimistic entry not pending with a local id: %+v", e)
	}
	if e.Message.Role != domain.MessageRoleUser || e.Message.Content != "tweak q2" {
		t.Fatalf("optimistic entry content wrong: %+v", e.Message)
	}
	if e.Message.ID != 0 {
		t.Fatalf("optimistic entry has a server id: %d", e.Message.ID)
	}
	if !c.Sending() {
		t.Fatal("not in sending state while exchange is in flight")
	}

	close(block)
	if err := <-done; err != nil {
		t.Fatalf("send: %v", err)
	}
}

func TestSecondSendWhileBusyIsRefusedWithoutNetworkEffect(t *testing.T) {
	block := make(chan struct{})
	sender := &fakeSender{block: block, respond: func(msg string) (domain.ChatExchange, error) {
		return exchangeFor(3, msg, "ok"), nil
	}}
	c := New(3, sender)

	done := make(chan error, 1)
	go func() { done <- c.Send(context.Background(), "first") }()
	waitForEntries(t, c, 1)

	if err := c.Send(context.Background(), "second"); !errors.Is(err, ErrBusy) {
		t.Fatalf("busy send err = %v, want ErrBusy", err)
	}
	if got := len(c.Entries()); got != 1 {
		t.Fatalf("refused send touched the transcript: %d entries", got)
	}
	if got := atomic.LoadInt32(&sender.calls); got != 1 {
		t.Fatalf("refused send reached the network: %d calls", got)
	}

	close(block)
	if err := <-done; err != nil {
		t.Fatalf("first send: %v", err)
	}
}

func TestFailedSendKeepsOptimisticEntryAndAppendsOneError(t *testing.T) {
	sender := &fakeSender{respond: func(msg string) (domain.ChatExchange, error) {
		return domain.ChatExchange{}, errors.New("model unavailable")
	}}
	c := New(3, sender)

	if err := c.Send(context.Background(), "try this"); err == nil {
		t.Fatal("expected send error")
	}
	entries := c.Entries()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want optimistic user + synthetic error", len(entries))
	}
	if !entries[0].Pending || entries[0].Message.Role != domain.MessageRoleUser {
		t.Fatalf("optimistic user entry was rolled back: %+v", entries[0])
	}
	if entries[1].Message.Role != domain.MessageRoleAssistant {
		t.Fatalf("synthetic entry role = %q, want assistant", entries[1].Message.Role)
	}
	failed, ok := c.LastFailed()
	if !ok || failed != "try this" {
		t.Fatalf("LastFailed = %q ok=%v", failed, ok)
	}
	if c.Sending() {
		t.Fatal("still sending after failure")
	}

	// A later success clears the retry affordance.
	sender.respond = func(msg string) (domain.ChatExchange, error) {
		return exchangeFor(3, msg, "applied"), nil
	}
	if err := c.Send(context.Background(), "try this"); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if _, ok := c.LastFailed(); ok {
		t.Fatal("LastFailed still set after a successful send")
	}
}

func TestStopAbortsInFlightSendAndDiscardsItsResult(t *testing.T) {
	block := make(chan struct{})
	sender := &fakeSender{block: block, respond: func(msg string) (domain.ChatExchange, error) {
		return exchangeFor(3, msg, "late"), nil
	}}
	c := New(3, sender)

	done := make(chan error, 1)
	go func() { done <- c.Send(context.Background(), "abort me") }()
	waitForEntries(t, c, 1)

	c.Stop()
	if c.Sending() {
		t.Fatal("still sending after Stop")
	}
	err := <-done
	if !errors.Is(err, ErrStopped) {
		t.Fatalf("aborted send err = %v, want ErrStopped", err)
	}
	// The optimistic entry stays; nothing from the aborted exchange lands.
	entries := c.Entries()
	if len(entries) != 1 || !entries[0].Pending {
		t.Fatalf("transcript after Stop: %+v", entries)
	}
	if _, ok := c.Paper(); ok {
		t.Fatal("aborted exchange replaced the paper")
	}
	if _, ok := c.LastFailed(); ok {
		t.Fatal("Stop recorded a failure; abort is not an error")
	}

	// The controller is idle again and can send normally.
	sender.block = nil
	if err := c.Send(context.Background(), "next"); err != nil {
		t.Fatalf("send after Stop: %v", err)
	}
}

func TestStopRacingCompletionDiscardsLateResult(t *testing.T) {
	block := make(chan struct{})
	sender := &fakeSender{respond: func(msg string) (domain.ChatExchange, error) {
		// Ignore cancellation and return a full result anyway, like a
		// response that was already on the wire when Stop ran.
		<-block
		return exchangeFor(3, msg, "late"), nil
	}}
	c := New(3, sender)

	done := make(chan error, 1)
	go func() { done <- c.Send(context.Background(), "race") }()
	waitForEntries(t, c, 1)

	c.Stop()
	close(block)
	if err := <-done; !errors.Is(err, ErrStopped) {
		t.Fatalf("late completion err = %v, want ErrStopped", err)
	}
	if entries := c.Entries(); len(entries) != 1 {
		t.Fatalf("late result mutated the transcript: %d entries", len(entries))
	}
}

func TestCanceledContextIsAbortNotFailure(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	sender := &fakeSender{block: block, respond: func(msg string) (domain.ChatExchange, error) {
		return exchangeFor(3, msg, "late"), nil
	}}
	c := New(3, sender)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Send(ctx, "interrupted") }()
	waitForEntries(t, c, 1)

	cancel()
	if err := <-done; !errors.Is(err, ErrStopped) {
		t.Fatalf("canceled send err = %v, want ErrStopped", err)
	}
	// No synthetic error and no retry affordance: the user gave up, the
	// backend did not fail.
	if entries := c.Entries(); len(entries) != 1 {
		t.Fatalf("transcript after cancellation: %+v", entries)
	}
	if _, ok := c.LastFailed(); ok {
		t.Fatal("cancellation recorded as a failed send")
	}
}

func TestEmptyMessageIsRejected(t *testing.T) {
	sender := &fakeSender{respond: func(msg string) (domain.ChatExchange, error) {
		t.Error("blank message reached the network")
		return domain.ChatExchange{}, nil
	}}
	c := New(3, sender)
	if err := c.Send(context.Background(), "   \n\t"); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}
	if got := len(c.Entries()); got != 0 {
		t.Fatalf("blank send touched the transcript: %d entries", got)
	}
}

func waitForEntries(t *testing.T, c *Controller, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(c.Entries()) >= n && c.Sending() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("send never reached %d entries in flight", n)
}
