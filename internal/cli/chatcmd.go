package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/sanjitmathur/ExamForge/internal/chat"
	"github.com/sanjitmathur/ExamForge/pkg/domain"
)

func (a *App) cmdChat(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("chat", flag.ContinueOnError)
	message := fs.String("m", "", "send one message and exit instead of opening a session")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: examforge chat [-m message] <generated-paper-id>")
	}
	id, err := parseID(fs.Arg(0))
	if err != nil {
		return err
	}

	paper, err := a.api.Generate.Get(ctx, id)
	if err != nil {
		return err
	}
	if paper.Status != domain.GenerationCompleted {
		return fmt.Errorf("paper %d is %s; only completed papers can be refined", id, paper.Status)
	}
	history, err := a.api.Chat.History(ctx, id)
	if err != nil {
		return err
	}

	ctl := chat.New(id, a.api.Chat)
	ctl.SetPaper(paper)
	ctl.SetHistory(history)

	if *message != "" {
		before := len(ctl.Entries())
		if err := ctl.Send(ctx, *message); err != nil {
			a.printNewEntries(ctl, before)
			return err
		}
		a.printNewEntries(ctl, before)
		return nil
	}
	return a.chatSession(ctx, ctl)
}

// chatSession runs the interactive refinement loop. Each line is one message.
// Sends run off the prompt goroutine so /stop can abort one that is still in
// flight; a second message typed during a send is refused, not queued.
func (a *App) chatSession(ctx context.Context, ctl *chat.Controller) error {
	fmt.Fprintf(a.out, "%srefining paper; type a change, or /paper, /retry, /stop, /quit%s\n",
		a.pal.Muted, a.pal.Reset)
	for _, e := range ctl.Entries() {
		a.printEntry(e)
	}

	for {
		line, err := a.prompt(">")
		if err != nil {
			if errors.Is(err, io.EOF) {
				ctl.Stop()
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "/quit", "/q":
			ctl.Stop()
			return nil
		case "/stop":
			if !ctl.Sending() {
				fmt.Fprintln(a.out, "nothing in flight")
				continue
			}
			ctl.Stop()
			fmt.Fprintln(a.out, "send aborted; the server may still apply the change")
			continue
		case "/paper":
			if paper, ok := ctl.Paper(); ok {
				a.printGenerated(paper, false)
			}
			continue
		case "/retry":
			failed, ok := ctl.LastFailed()
			if !ok {
				fmt.Fprintln(a.out, "nothing to retry")
				continue
			}
			line = failed
		}

		if ctl.Sending() {
			fmt.Fprintln(a.out, "still waiting on the previous change (/stop to abort it)")
			continue
		}
		// The echo of the optimistic entry and of whatever the exchange adds
		// both come from this goroutine, so rows never print twice.
		before := len(ctl.Entries())
		go func(text string, before int) {
			err := ctl.Send(ctx, text)
			switch {
			case err == nil:
				a.printNewEntries(ctl, before)
			case errors.Is(err, chat.ErrStopped):
				// Aborted mid-flight; the optimistic entry stays and
				// nothing that came back touched the transcript.
			case errors.Is(err, chat.ErrBusy):
				fmt.Fprintln(a.out, "still waiting on the previous change")
			default:
				a.printNewEntries(ctl, before)
			}
		}(line, before)
	}
}

// printNewEntries prints transcript rows added since index from. On a
// successful exchange the server replaces the transcript wholesale, so the
// assistant's reply is the last row.
func (a *App) printNewEntries(ctl *chat.Controller, from int) {
	entries := ctl.Entries()
	if from > len(entries) {
		from = 0
	}
	for _, e := range entries[from:] {
		a.printEntry(e)
	}
}

func (a *App) printEntry(e chat.Entry) {
	label := string(e.Message.Role)
	color := a.pal.Primary
	if e.Message.Role == domain.MessageRoleUser {
		color = a.pal.Bold
	}
	suffix := ""
	if e.Pending {
		suffix = " (unconfirmed)"
	}
	fmt.Fprintf(a.out, "%s%s%s%s: %s\n", color, label, a.pal.Reset, suffix, renderReply(e.Message.Content))
}

// renderReply collapses assistant replies that carry a full paper rewrite.
// The marker splits paper body from answer key; showing the whole thing would
// drown the transcript, so a short confirmation stands in for it.
func renderReply(content string) string {
	if !strings.Contains(content, domain.AnswerKeyMarker) {
		return content
	}
	return "The paper has been updated. Use /paper to review the new draft."
}
