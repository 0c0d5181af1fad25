package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/sanjitmathur/ExamForge/internal/api"
)

func (a *App) cmdExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	format := fs.String("format", "pdf", "document format: pdf or word")
	key := fs.Bool("key", false, "export the answer key instead of the paper")
	output := fs.String("o", "", "output path (default derives from the paper title)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: examforge export [-format pdf|word] [-key] [-o file] <generated-paper-id>")
	}
	id, err := parseID(fs.Arg(0))
	if err != nil {
		return err
	}
	var exportFormat api.ExportFormat
	switch *format {
	case "pdf":
		exportFormat = api.FormatPDF
	case "word", "docx":
		exportFormat = api.FormatWord
	default:
		return fmt.Errorf("unknown format %q, want pdf or word", *format)
	}

	path := *output
	if path == "" {
		base := fmt.Sprintf("paper-%d", id)
		if *key {
			base += "-answer-key"
		}
		path = base + exportFormat.Ext()
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if *key {
		err = a.api.Export.AnswerKey(ctx, id, exportFormat, f)
	} else {
		err = a.api.Export.Paper(ctx, id, exportFormat, f)
	}
	if err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "saved %s\n", path)
	return nil
}
