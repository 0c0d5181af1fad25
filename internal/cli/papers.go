package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sanjitmathur/ExamForge/internal/poll"
	"github.com/sanjitmathur/ExamForge/internal/upload"
	"github.com/sanjitmathur/ExamForge/pkg/domain"
)

// maxConcurrentUploads bounds the parallel multipart posts during a batch
// upload so a directory full of scans does not open dozens of connections.
const maxConcurrentUploads = 3

func (a *App) cmdUpload(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	board := fs.String("board", "", "exam board, e.g. CBSE")
	grade := fs.String("grade", "", "grade level, 1 through 12")
	subject := fs.String("subject", "", "subject, e.g. Mathematics")
	watch := fs.Bool("watch", false, "follow processing until every upload finishes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	files := fs.Args()
	if len(files) == 0 {
		return errors.New("usage: examforge upload -board B -grade G -subject S file.pdf [file2.docx ...]")
	}
	if !domain.ValidBoard(*board) {
		return fmt.Errorf("unknown board %q; one of %v", *board, domain.Boards)
	}
	if !domain.ValidGrade(*grade) {
		return fmt.Errorf("unknown grade %q; one of %v", *grade, domain.Grades)
	}
	if !domain.ValidSubject(*subject) {
		return fmt.Errorf("unknown subject %q; one of %v", *subject, domain.Subjects)
	}

	pre := upload.New()
	for _, path := range files {
		info, err := pre.Check(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if info.Pages > 0 {
			fmt.Fprintf(a.out, "%s: %d pages\n", info.Name, info.Pages)
		}
	}

	var (
		mu       sync.Mutex
		uploaded []domain.UploadedPaper
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentUploads)
	for _, path := range files {
		path := path
		g.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			paper, err := a.api.Papers.Upload(gctx, filepath.Base(path), f, *board, *grade, *subject)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			mu.Lock()
			uploaded = append(uploaded, paper)
			mu.Unlock()
			fmt.Fprintf(a.out, "uploaded %s as paper %d (%s)\n",
				paper.OriginalFilename, paper.ID, a.pal.PaperBadge(paper.Status))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if !*watch {
		fmt.Fprintln(a.out, "processing continues in the background; check with: examforge papers")
		return nil
	}
	ids := make([]int64, 0, len(uploaded))
	for _, p := range uploaded {
		ids = append(ids, p.ID)
	}
	return a.watchPapers(ctx, ids)
}

// watchEvent carries one finished polling loop back to the foreground: either
// a terminal status was reached or the probe itself failed.
type watchEvent struct {
	id  int64
	err error
}

// watchPapers polls each id until terminal, printing status transitions as
// they happen and the full record once processing ends.
func (a *App) watchPapers(ctx context.Context, ids []int64) error {
	events := make(chan watchEvent, len(ids))
	watcher := poll.New(poll.Config{
		Interval: a.cfg.PollIntervalDuration(),
		Check: func(ctx context.Context, id int64) (string, bool, error) {
			info, err := a.api.Papers.Status(ctx, id)
			if err != nil {
				events <- watchEvent{id: id, err: err}
				return "", false, err
			}
			return string(info.Status), info.Status.Terminal(), nil
		},
		OnUpdate: func(id int64, status string) {
			fmt.Fprintf(a.out, "paper %d: %s\n", id, a.pal.PaperBadge(domain.PaperStatus(status)))
		},
		OnDone: func(id int64) {
			events <- watchEvent{id: id}
		},
	})
	defer watcher.Close()

	started := 0
	for _, id := range ids {
		if watcher.Start(ctx, id) {
			started++
		}
	}
	var failed bool
	for ; started > 0; started-- {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if ev.err != nil {
				return fmt.Errorf("paper %d: status check: %w", ev.id, ev.err)
			}
			paper, err := a.api.Papers.Get(ctx, ev.id)
			if err != nil {
				return err
			}
			switch paper.Status {
			case domain.PaperCompleted:
				fmt.Fprintf(a.out, "paper %d: %s, %d questions extracted\n",
					paper.ID, a.pal.PaperBadge(paper.Status), paper.QuestionCount)
			case domain.PaperFailed:
				failed = true
				fmt.Fprintf(a.out, "paper %d: %s: %s\n",
					paper.ID, a.pal.PaperBadge(paper.Status), orDash(paper.ErrorMessage))
			}
		}
	}
	if failed {
		return errors.New("one or more papers failed processing")
	}
	return nil
}

func (a *App) cmdPapers(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		return a.papersList(ctx)
	case "show":
		if len(args) < 2 {
			return errors.New("usage: examforge papers show <id>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		return a.papersShow(ctx, id)
	case "watch":
		if len(args) < 2 {
			return errors.New("usage: examforge papers watch <id> [id ...]")
		}
		ids := make([]int64, 0, len(args)-1)
		for _, arg := range args[1:] {
			id, err := parseID(arg)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return a.papersWatch(ctx, ids)
	case "delete":
		if len(args) < 2 {
			return errors.New("usage: examforge papers delete <id>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		if err := a.api.Papers.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "paper %d deleted along with its questions\n", id)
		return nil
	default:
		return fmt.Errorf("unknown papers subcommand %q (list, show, watch, delete)", args[0])
	}
}

func (a *App) papersList(ctx context.Context) error {
	papers, err := a.api.Papers.List(ctx)
	if err != nil {
		return err
	}
	if len(papers) == 0 {
		fmt.Fprintln(a.out, "no papers uploaded yet; start with: examforge upload")
		return nil
	}
	w := a.table()
	fmt.Fprintln(w, "ID\tFILE\tBOARD\tGRADE\tSUBJECT\tSTATUS\tQUESTIONS")
	for _, p := range papers {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%d\n",
			p.ID, p.OriginalFilename, p.Board, p.GradeLevel, p.Subject,
			a.pal.PaperBadge(p.Status), p.QuestionCount)
	}
	return w.Flush()
}

func (a *App) papersShow(ctx context.Context, id int64) error {
	paper, err := a.api.Papers.Get(ctx, id)
	if err != nil {
		return err
	}
	w := a.table()
	fmt.Fprintf(w, "id\t%d\n", paper.ID)
	fmt.Fprintf(w, "file\t%s\n", paper.OriginalFilename)
	fmt.Fprintf(w, "type\t%s\n", paper.FileType)
	fmt.Fprintf(w, "board\t%s\n", paper.Board)
	fmt.Fprintf(w, "grade\t%s\n", paper.GradeLevel)
	fmt.Fprintf(w, "subject\t%s\n", paper.Subject)
	fmt.Fprintf(w, "status\t%s\n", a.pal.PaperBadge(paper.Status))
	fmt.Fprintf(w, "questions\t%d\n", paper.QuestionCount)
	fmt.Fprintf(w, "uploaded\t%s\n", paper.CreatedAt)
	if paper.ErrorMessage != "" {
		fmt.Fprintf(w, "error\t%s\n", paper.ErrorMessage)
	}
	return w.Flush()
}

// papersWatch resumes following papers that are still processing. Papers
// already terminal are reported immediately without starting a loop.
func (a *App) papersWatch(ctx context.Context, ids []int64) error {
	pending := make([]int64, 0, len(ids))
	for _, id := range ids {
		paper, err := a.api.Papers.Get(ctx, id)
		if err != nil {
			return err
		}
		if paper.Status.Terminal() {
			fmt.Fprintf(a.out, "paper %d: already %s\n", paper.ID, a.pal.PaperBadge(paper.Status))
			continue
		}
		fmt.Fprintf(a.out, "paper %d: %s\n", paper.ID, a.pal.PaperBadge(paper.Status))
		pending = append(pending, id)
	}
	if len(pending) == 0 {
		return nil
	}
	return a.watchPapers(ctx, pending)
}
