package statsview

import (
	"fmt"
	"log"
	"time"

	"github.com/ramonehamilton/deckstats/internal/async"
	"github.com/ramonehamilton/deckstats/internal/events"
	"github.com/ramonehamilton/deckstats/internal/i18n"
	"github.com/ramonehamilton/deckstats/internal/surface"
)

// scrollToTop runs before export; printing from a scrolled view clips the
// first page.
const scrollToTop = "window.scrollTo(0, 0);"

// PDFFileName returns the suggested export name for the local time t, e.g.
// "anki-Stats-2024-03-10@14-05-09.pdf".
func PDFFileName(statsLabel string, t time.Time) string {
	return fmt.Sprintf("anki-%s%s", statsLabel, t.Format("-2006-01-02@15-04-05.pdf"))
}

// ExportCurrentViewToPDF asks for a destination and writes the mounted
// legacy view there. Cancelling the picker does nothing. Write failures are
// reported through the notifier as *ExportIOError; the dialog stays open.
func (c *Controller) ExportCurrentViewToPDF() error {
	if err := c.ready(); err != nil {
		return err
	}
	sf := c.slot.Current()
	if sf == nil || sf.Kind() != surface.KindLegacy {
		return ErrExportUnsupported
	}

	req := SaveRequest{
		Title: c.deps.Labels.T(i18n.SavePDF),
		Key:   "stats",
		Ext:   ".pdf",
		Name:  PDFFileName(c.deps.Labels.T(i18n.Stats), c.deps.Clock().Local()),
	}
	ctx := c.ctx
	picker := c.deps.Picker

	async.Go(c.deps.Loop, c.token, func() (string, error) {
		return picker.ChooseSaveDestination(ctx, req)
	}).Then(func(path string, err error) {
		if err != nil {
			log.Printf("[StatsView] Save dialog failed: %v", err)
			c.deps.Notifier.Notice(fmt.Errorf("choose PDF destination: %w", err))
			return
		}
		if path == "" {
			c.debugf("PDF export cancelled")
			return
		}
		if c.slot.Current() != sf {
			log.Printf("[StatsView] View changed before export to %s, skipping", path)
			return
		}
		c.exportTo(sf, path)
	})
	return nil
}

func (c *Controller) exportTo(sf surface.Surface, path string) {
	sf.EvaluateScript(scrollToTop).Then(func(_ string, err error) {
		if err != nil {
			log.Printf("[StatsView] Scroll before export failed: %v", err)
		}
		sf.ExportToPDF(path).Then(func(_ struct{}, err error) {
			if err != nil {
				log.Printf("[StatsView] PDF export to %s failed: %v", path, err)
				c.deps.Notifier.Notice(err)
				return
			}
			log.Printf("[StatsView] Saved PDF to %s", path)
			c.deps.Notifier.Tooltip(c.deps.Labels.T(i18n.Saved))
			c.dispatch(events.New(events.TypePDFSaved, events.PDFSavedEvent{Path: path}))
		})
	})
}
