package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/sanjitmathur/ExamForge/internal/poll"
	"github.com/sanjitmathur/ExamForge/pkg/domain"
)

func (a *App) cmdGenerate(ctx context.Context, args []string) error {
	sub := "new"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		sub, args = args[0], args[1:]
	}
	switch sub {
	case "new":
		return a.generateNew(ctx, args)
	case "list":
		return a.generateList(ctx)
	case "show":
		if len(args) < 1 {
			return errors.New("usage: examforge generate show <id> [-key]")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		withKey := len(args) > 1 && args[1] == "-key"
		return a.generateShow(ctx, id, withKey)
	case "watch":
		if len(args) < 1 {
			return errors.New("usage: examforge generate watch <id>")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return a.generateWatch(ctx, id)
	default:
		return fmt.Errorf("unknown generate subcommand %q (new, list, show, watch)", sub)
	}
}

func (a *App) generateNew(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate new", flag.ContinueOnError)
	title := fs.String("title", "", "paper title")
	board := fs.String("board", "", "exam board")
	grade := fs.String("grade", "", "grade level")
	subject := fs.String("subject", "", "subject")
	topics := fs.String("topics", "", "comma-separated topics to draw from")
	types := fs.String("types", "", "comma-separated question types")
	mix := fs.String("mix", "", "difficulty mix, e.g. easy=4,medium=4,hard=2")
	marks := fs.Int("marks", 0, "total marks")
	duration := fs.Int("duration", 0, "duration in minutes")
	instructions := fs.String("instructions", "", "extra instructions for the generator")
	watch := fs.Bool("watch", true, "follow generation until it finishes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *title == "" || *board == "" || *grade == "" || *subject == "" {
		return errors.New("-title, -board, -grade, and -subject are required")
	}
	difficultyMix, err := parseMix(*mix)
	if err != nil {
		return err
	}

	paper, err := a.api.Generate.Create(ctx, domain.GeneratePaperRequest{
		Title:                  *title,
		Board:                  *board,
		GradeLevel:             *grade,
		Subject:                *subject,
		Topics:                 splitList(*topics),
		QuestionTypes:          splitList(*types),
		DifficultyMix:          difficultyMix,
		TotalMarks:             *marks,
		DurationMinutes:        *duration,
		AdditionalInstructions: *instructions,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "generation %d started (%s)\n", paper.ID, a.pal.GenerationBadge(paper.Status))
	if !*watch {
		fmt.Fprintf(a.out, "check progress with: examforge generate watch %d\n", paper.ID)
		return nil
	}
	return a.generateWatch(ctx, paper.ID)
}

// generateWatch follows one generation until terminal, then prints the result.
func (a *App) generateWatch(ctx context.Context, id int64) error {
	current, err := a.api.Generate.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.Status.Terminal() {
		return a.printGenerated(current, false)
	}

	events := make(chan watchEvent, 1)
	watcher := poll.New(poll.Config{
		Interval: a.cfg.PollIntervalDuration(),
		Check: func(ctx context.Context, id int64) (string, bool, error) {
			info, err := a.api.Generate.Status(ctx, id)
			if err != nil {
				events <- watchEvent{id: id, err: err}
				return "", false, err
			}
			return string(info.Status), info.Status.Terminal(), nil
		},
		OnUpdate: func(id int64, status string) {
			fmt.Fprintf(a.out, "generation %d: %s\n", id, a.pal.GenerationBadge(domain.GenerationStatus(status)))
		},
		OnDone: func(id int64) {
			events <- watchEvent{id: id}
		},
	})
	defer watcher.Close()
	watcher.Start(ctx, id)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case ev := <-events:
		if ev.err != nil {
			return fmt.Errorf("generation %d: status check: %w", ev.id, ev.err)
		}
	}
	paper, err := a.api.Generate.Get(ctx, id)
	if err != nil {
		return err
	}
	return a.printGenerated(paper, false)
}

func (a *App) generateList(ctx context.Context) error {
	papers, err := a.api.Generate.List(ctx)
	if err != nil {
		return err
	}
	if len(papers) == 0 {
		fmt.Fprintln(a.out, "no generated papers yet; start with: examforge generate new")
		return nil
	}
	w := a.table()
	fmt.Fprintln(w, "ID\tTITLE\tBOARD\tGRADE\tSUBJECT\tSTATUS\tCREATED")
	for _, p := range papers {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Title, p.Board, p.GradeLevel, p.Subject,
			a.pal.GenerationBadge(p.Status), p.CreatedAt)
	}
	return w.Flush()
}

func (a *App) generateShow(ctx context.Context, id int64, withKey bool) error {
	paper, err := a.api.Generate.Get(ctx, id)
	if err != nil {
		return err
	}
	return a.printGenerated(paper, withKey)
}

func (a *App) printGenerated(paper domain.GeneratedPaper, withKey bool) error {
	switch paper.Status {
	case domain.GenerationRunning:
		fmt.Fprintf(a.out, "generation %d: %s\n", paper.ID, a.pal.GenerationBadge(paper.Status))
		return nil
	case domain.GenerationFailed:
		fmt.Fprintf(a.out, "generation %d: %s: %s\n",
			paper.ID, a.pal.GenerationBadge(paper.Status), orDash(paper.ErrorMessage))
		return errors.New("generation failed")
	}
	fmt.Fprintf(a.out, "%s%s%s  (%d marks, %d minutes)\n\n",
		a.pal.Bold, paper.Title, a.pal.Reset, paper.TotalMarks, paper.DurationMinutes)
	fmt.Fprintln(a.out, paper.ContentMarkdown)
	if withKey && paper.AnswerKeyMarkdown != "" {
		fmt.Fprintf(a.out, "\n%sanswer key%s\n\n", a.pal.Primary, a.pal.Reset)
		fmt.Fprintln(a.out, paper.AnswerKeyMarkdown)
	}
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseMix parses "easy=4,medium=4,hard=2" into a difficulty histogram.
func parseMix(s string) (map[string]int, error) {
	if s == "" {
		return nil, nil
	}
	mix := make(map[string]int)
	for _, part := range strings.Split(s, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return nil, fmt.Errorf("bad mix entry %q, want difficulty=count", part)
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("bad mix count %q", value)
		}
		mix[key] = n
	}
	return mix, nil
}
