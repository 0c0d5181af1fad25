package cli

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sanjitmathur/ExamForge/pkg/domain"
)

// cmdDashboard mirrors the teacher home page: recent uploads, recent
// generations, and bank totals, fetched concurrently.
func (a *App) cmdDashboard(ctx context.Context) error {
	var (
		papers    []domain.UploadedPaper
		generated []domain.GeneratedPaperListItem
		stats     domain.QuestionStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		papers, err = a.api.Papers.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		generated, err = a.api.Generate.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = a.api.Questions.Stats(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	user, _ := a.sess.User()
	fmt.Fprintf(a.out, "%swelcome back, %s%s\n", a.pal.Bold, user.FullName, a.pal.Reset)
	fmt.Fprintf(a.out, "%d papers uploaded, %d questions in the bank, %d papers generated\n\n",
		len(papers), stats.TotalQuestions, len(generated))

	inProgress := 0
	for _, p := range papers {
		if p.Status.InProgress() {
			inProgress++
		}
	}
	if inProgress > 0 {
		fmt.Fprintf(a.out, "%s%d papers still processing; follow with: examforge papers watch <id>%s\n\n",
			a.pal.Warning, inProgress, a.pal.Reset)
	}

	if n := len(papers); n > 0 {
		fmt.Fprintf(a.out, "%srecent uploads%s\n", a.pal.Primary, a.pal.Reset)
		w := a.table()
		for _, p := range papers[:min(n, 5)] {
			fmt.Fprintf(w, "  %d\t%s\t%s\t%s\n",
				p.ID, p.OriginalFilename, p.Subject, a.pal.PaperBadge(p.Status))
		}
		w.Flush()
		fmt.Fprintln(a.out)
	}
	if n := len(generated); n > 0 {
		fmt.Fprintf(a.out, "%srecent generations%s\n", a.pal.Primary, a.pal.Reset)
		w := a.table()
		for _, p := range generated[:min(n, 5)] {
			fmt.Fprintf(w, "  %d\t%s\t%s\t%s\n",
				p.ID, p.Title, p.Subject, a.pal.GenerationBadge(p.Status))
		}
		w.Flush()
	}
	return nil
}
