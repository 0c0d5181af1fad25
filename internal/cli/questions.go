package cli

import (
	"context"
	"flag"
	"fmt"
	"sort"

	"github.com/sanjitmathur/ExamForge/internal/api"
	"github.com/sanjitmathur/ExamForge/internal/cache"
	"github.com/sanjitmathur/ExamForge/pkg/domain"
)

func (a *App) cmdQuestions(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		sub, args = args[0], args[1:]
	}
	switch sub {
	case "list":
		return a.questionsList(ctx, args)
	case "stats":
		return a.questionsStats(ctx)
	case "topics":
		return a.questionsTopics(ctx)
	case "sync":
		return a.questionsSync(ctx)
	default:
		return fmt.Errorf("unknown questions subcommand %q (list, stats, topics, sync)", sub)
	}
}

func questionFilterFlags(fs *flag.FlagSet) *api.QuestionFilter {
	f := &api.QuestionFilter{}
	fs.StringVar(&f.Board, "board", "", "filter by exam board")
	fs.StringVar(&f.GradeLevel, "grade", "", "filter by grade level")
	fs.StringVar(&f.Subject, "subject", "", "filter by subject")
	fs.StringVar(&f.QuestionType, "type", "", "filter by question type")
	fs.StringVar(&f.Difficulty, "difficulty", "", "filter by difficulty")
	fs.StringVar(&f.Topic, "topic", "", "filter by topic")
	return f
}

func (a *App) questionsList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("questions list", flag.ContinueOnError)
	filter := questionFilterFlags(fs)
	offline := fs.Bool("offline", false, "serve from the local cache instead of the backend")
	full := fs.Bool("full", false, "print full question text and answers")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		questions []domain.ExtractedQuestion
		err       error
	)
	if *offline {
		store, err2 := cache.Open(a.cfg.CachePath())
		if err2 != nil {
			return err2
		}
		questions, err = store.ListQuestions(*filter)
		if err == nil {
			if synced, err2 := store.LastSyncedAt(); err2 == nil && !synced.IsZero() {
				fmt.Fprintf(a.out, "%soffline cache, last synced %s%s\n",
					a.pal.Muted, synced.Format("2006-01-02 15:04"), a.pal.Reset)
			}
		}
	} else {
		questions, err = a.api.Questions.List(ctx, *filter)
	}
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		fmt.Fprintln(a.out, "no questions match")
		return nil
	}

	if *full {
		for _, q := range questions {
			fmt.Fprintf(a.out, "%s[%d] %s, %s, %d marks%s\n",
				a.pal.Bold, q.ID, q.QuestionType, q.Difficulty, q.Marks, a.pal.Reset)
			fmt.Fprintln(a.out, q.QuestionText)
			if q.AnswerText != "" {
				fmt.Fprintf(a.out, "%sanswer:%s %s\n", a.pal.Success, a.pal.Reset, q.AnswerText)
			}
			fmt.Fprintln(a.out)
		}
		return nil
	}
	w := a.table()
	fmt.Fprintln(w, "ID\tPAPER\tTYPE\tDIFFICULTY\tMARKS\tTOPIC\tQUESTION")
	for _, q := range questions {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%d\t%s\t%s\n",
			q.ID, q.PaperID, q.QuestionType, q.Difficulty, q.Marks,
			orDash(q.Topic), truncate(q.QuestionText, 60))
	}
	return w.Flush()
}

func (a *App) questionsStats(ctx context.Context) error {
	stats, err := a.api.Questions.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s%d questions in the bank%s\n\n", a.pal.Bold, stats.TotalQuestions, a.pal.Reset)
	a.printBreakdown("by type", stats.ByType)
	a.printBreakdown("by difficulty", stats.ByDifficulty)
	a.printBreakdown("by subject", stats.BySubject)
	a.printBreakdown("by grade", stats.ByGrade)
	a.printBreakdown("by board", stats.ByBoard)
	return nil
}

func (a *App) printBreakdown(title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(a.out, "%s%s%s\n", a.pal.Primary, title, a.pal.Reset)
	w := a.table()
	for _, k := range keys {
		fmt.Fprintf(w, "  %s\t%d\n", k, counts[k])
	}
	w.Flush()
	fmt.Fprintln(a.out)
}

func (a *App) questionsTopics(ctx context.Context) error {
	topics, err := a.api.Questions.Topics(ctx)
	if err != nil {
		return err
	}
	if len(topics) == 0 {
		fmt.Fprintln(a.out, "no topics yet")
		return nil
	}
	for _, t := range topics {
		fmt.Fprintln(a.out, t)
	}
	return nil
}

// questionsSync snapshots the whole question bank into the local cache so
// list -offline works without the backend.
func (a *App) questionsSync(ctx context.Context) error {
	questions, err := a.api.Questions.List(ctx, api.QuestionFilter{})
	if err != nil {
		return err
	}
	store, err := cache.Open(a.cfg.CachePath())
	if err != nil {
		return err
	}
	if err := store.ReplaceQuestions(questions); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "cached %d questions at %s\n", len(questions), a.cfg.CachePath())
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
