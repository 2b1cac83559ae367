package surface

import (
	"fmt"

	"github.com/ramonehamilton/deckstats/internal/async"
)

// Paginated shows a page served by the application. The page owns its own
// scope and period controls, so the surface only ever navigates.
type Paginated struct {
	base
}

// NewPaginated creates an unmounted paginated surface.
func NewPaginated(host Host, loop *async.Loop, parent *async.Token, opts Options) *Paginated {
	return &Paginated{base: newBase(KindPaginated, host, loop, parent, opts)}
}

func (p *Paginated) Load(src Source) error {
	if err := p.check("load"); err != nil {
		return err
	}
	if !src.IsPage() {
		return fmt.Errorf("paginated surface: %w", ErrWrongSource)
	}
	if p.showing(src) {
		return nil
	}
	if err := p.host.Navigate(src.URL()); err != nil {
		return fmt.Errorf("navigate to %s: %w", src.URL(), err)
	}
	p.remember(src)
	return nil
}

// ExportToPDF works only when the host prints its own content; the paginated
// page normally offers its own export.
func (p *Paginated) ExportToPDF(path string) *async.Future[struct{}] {
	if err := p.check("exportToPdf"); err != nil {
		return async.Rejected[struct{}](p.loop, p.token, err)
	}
	host, ok := p.host.(PDFHost)
	if !ok {
		return async.Rejected[struct{}](p.loop, p.token, ErrPrintUnsupported)
	}
	return p.printViaHost(host, path)
}
