package main

import (
	"context"
	"fmt"
	"io"

	"github.com/ramonehamilton/deckstats/internal/async"
	"github.com/ramonehamilton/deckstats/internal/report"
	"github.com/ramonehamilton/deckstats/internal/statsview"
	"github.com/ramonehamilton/deckstats/internal/surface"
	"github.com/ramonehamilton/deckstats/internal/webview"
)

// renderer shows reports on a legacy surface backed by a headless host, the
// same path the dialog takes for card info and legacy deck reports.
type renderer struct {
	loop    *async.Loop
	host    *webview.Headless
	surface *surface.Legacy
	stop    context.CancelFunc
}

func newRenderer(ctx context.Context, p surface.Printer) *renderer {
	ctx, cancel := context.WithCancel(ctx)
	loop := async.NewLoop()
	go func() { _ = loop.Run(ctx) }()

	host := webview.NewHeadless()
	return &renderer{
		loop:    loop,
		host:    host,
		surface: surface.NewLegacy(host, loop, async.NewToken(), p, surface.Options{}),
		stop:    cancel,
	}
}

// render loads rep and either writes the document to out or, with a
// pdfPath, exports it.
func (r *renderer) render(ctx context.Context, rep *report.Report, pdfPath string, out io.Writer) error {
	err := r.loop.Call(ctx, func() error {
		return r.surface.Load(statsview.LegacySource(rep))
	})
	if err != nil {
		return err
	}

	if pdfPath == "" {
		_, err := fmt.Fprintln(out, r.host.Document())
		return err
	}

	done := make(chan error, 1)
	err = r.loop.Call(ctx, func() error {
		r.surface.ExportToPDF(pdfPath).Then(func(_ struct{}, err error) {
			done <- err
		})
		return nil
	})
	if err != nil {
		return err
	}
	select {
	case err := <-done:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		return ctx.Err()
	}
	_, err = fmt.Fprintf(out, "Saved %s\n", pdfPath)
	return err
}

func (r *renderer) close(ctx context.Context) {
	_ = r.loop.Call(ctx, r.surface.Dispose)
	r.stop()
}
