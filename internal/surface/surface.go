// Package surface defines the embeddable report views the stats dialog mounts.
//
// Two variants share one small contract. A Paginated surface shows a named page
// served by the application and runs its own scope/period controls. A Legacy
// surface shows markup built by the caller and can snapshot it to PDF.
package surface

import (
	"fmt"
	"net/url"
	"slices"

	"github.com/ramonehamilton/deckstats/internal/async"
)

// Kind identifies a surface variant.
type Kind int

const (
	KindPaginated Kind = iota + 1
	KindLegacy
)

func (k Kind) String() string {
	switch k {
	case KindPaginated:
		return "paginated"
	case KindLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Surface is the contract shared by both variants.
//
// All methods must be called from the UI loop. Futures returned by a surface
// never deliver after Dispose.
type Surface interface {
	Kind() Kind

	// Load shows src. Loading the source already shown does nothing.
	Load(src Source) error

	// EvaluateScript runs script in the displayed page.
	EvaluateScript(script string) *async.Future[string]

	// ExportToPDF writes a PDF snapshot of the current content to path.
	// Write failures resolve with *ExportIOError.
	ExportToPDF(path string) *async.Future[struct{}]

	// Dispose releases the host view. It may be called once.
	Dispose() error

	Disposed() bool
}

// Source is what a surface displays: a page key for Paginated surfaces, or
// markup with its script and stylesheet references for Legacy ones.
type Source struct {
	Page  string
	Query string

	Markup  string
	Scripts []string
	Styles  []string
}

// PageSource addresses a named page served by the application.
func PageSource(page string, params url.Values) Source {
	return Source{Page: page, Query: params.Encode()}
}

// MarkupSource wraps markup and the assets it needs.
func MarkupSource(markup string, scripts, styles []string) Source {
	return Source{
		Markup:  markup,
		Scripts: slices.Clone(scripts),
		Styles:  slices.Clone(styles),
	}
}

// IsPage reports whether the source names a page.
func (s Source) IsPage() bool {
	return s.Page != ""
}

// URL is the page-relative address of a page source.
func (s Source) URL() string {
	u := "/" + s.Page
	if s.Query != "" {
		u += "?" + s.Query
	}
	return u
}

// Equal compares sources by value.
func (s Source) Equal(o Source) bool {
	return s.Page == o.Page &&
		s.Query == o.Query &&
		s.Markup == o.Markup &&
		slices.Equal(s.Scripts, o.Scripts) &&
		slices.Equal(s.Styles, o.Styles)
}

// Factory creates an unmounted surface of the given kind. parent is the token
// of the owner; the surface's own token is derived from it.
type Factory func(kind Kind, parent *async.Token) (Surface, error)
