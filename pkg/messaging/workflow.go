package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"leadscore/pkg/apperr"
	"leadscore/pkg/logger"
	"leadscore/pkg/models"
	"leadscore/pkg/sheet"

	"github.com/schollz/progressbar/v3"
)

// Touchpoint is one lead row with a message due.
type Touchpoint struct {
	Row       int // 0-based data row
	Column    string
	Email     string
	FirstName string
	Industry  string
	Language  string
}

// Due lists every touchpoint scheduled for day. Cells holding N/A, DONE,
// blanks or unparseable text are skipped.
func Due(t *sheet.Table, day time.Time) []Touchpoint {
	want := models.Day(day)
	var out []Touchpoint
	for r := range t.Rows {
		for _, col := range TouchpointColumns() {
			if !t.HasColumn(col) {
				continue
			}
			cell := strings.TrimSpace(t.Cell(r, col))
			if strings.EqualFold(cell, models.Done) {
				continue
			}
			d, ok := models.ParseDateCell(cell).Date()
			if !ok || !d.Equal(want) {
				continue
			}
			out = append(out, Touchpoint{
				Row:       r,
				Column:    col,
				Email:     strings.TrimSpace(t.Cell(r, models.ColEmail)),
				FirstName: strings.TrimSpace(t.Cell(r, models.ColFirstName)),
				Industry:  t.Cell(r, models.ColIndustry),
				Language:  t.Cell(r, models.ColLanguage),
			})
		}
	}
	return out
}

// Compose renders the message for one touchpoint.
func Compose(lib Library, tp Touchpoint) (Message, error) {
	if tp.Email == "" {
		return Message{}, &apperr.Error{Kind: apperr.KindTemplate, Op: "compose", Column: models.ColEmail, Row: tp.Row + 1, Message: "no email address"}
	}
	tpl, err := lib.Lookup(tp.Language, tp.Column, tp.Industry, tp.FirstName)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Row:     tp.Row,
		Column:  tp.Column,
		To:      tp.Email,
		Subject: tpl.Subject,
		Body:    tpl.Body,
	}, nil
}

// Outcome counts what one Run did.
type Outcome struct {
	Matched int
	Sent    int
	Skipped int
	Failed  int
	Marked  int
}

// Options controls a Run.
type Options struct {
	// Mark writes DONE into every touchpoint cell that was sent.
	Mark    bool
	Verbose bool
}

// Run sends every touchpoint due on day. Template problems skip the row
// with a warning; send failures are collected and returned together after
// the remaining rows were tried.
func Run(ctx context.Context, t *sheet.Table, day time.Time, lib Library, sender Sender, opts Options, log *logger.Logger) (Outcome, error) {
	started := time.Now()
	due := Due(t, day)
	out := Outcome{Matched: len(due)}
	log.Stage("match", len(due), started, slog.String("day", models.Day(day).Format(models.DateLayout)))

	bar := newBar(len(due), opts.Verbose)
	defer bar.Close()

	var errs []error
	for _, tp := range due {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		_ = bar.Add(1)

		msg, err := Compose(lib, tp)
		if err != nil {
			out.Skipped++
			log.Warn("touchpoint_skipped",
				slog.Int("row", tp.Row+1),
				slog.String("column", tp.Column),
				slog.String("error", err.Error()))
			continue
		}
		if err := sender.Send(ctx, msg); err != nil {
			out.Failed++
			errs = append(errs, fmt.Errorf("row %d %s: %w", tp.Row+1, tp.Column, err))
			continue
		}
		out.Sent++
		log.Debug("touchpoint_sent", slog.Int("row", tp.Row+1), slog.String("column", tp.Column))

		if opts.Mark {
			if err := t.SetCell(tp.Row, tp.Column, models.Done); err != nil {
				errs = append(errs, err)
				continue
			}
			out.Marked++
		}
	}

	log.Stage("send", out.Sent, started,
		slog.Int("skipped", out.Skipped),
		slog.Int("failed", out.Failed),
		slog.Int("marked", out.Marked))
	return out, errors.Join(errs...)
}

func newBar(n int, verbose bool) *progressbar.ProgressBar {
	if verbose {
		return progressbar.Default(int64(n), "sending")
	}
	return progressbar.NewOptions(n, progressbar.OptionSetWriter(io.Discard))
}
