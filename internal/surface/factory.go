package surface

import (
	"fmt"

	"github.com/ramonehamilton/deckstats/internal/async"
)

// NewFactory builds surfaces that all render into host.
func NewFactory(host Host, loop *async.Loop, printer Printer, opts Options) Factory {
	return func(kind Kind, parent *async.Token) (Surface, error) {
		switch kind {
		case KindPaginated:
			return NewPaginated(host, loop, parent, opts), nil
		case KindLegacy:
			return NewLegacy(host, loop, parent, printer, opts), nil
		default:
			return nil, fmt.Errorf("unknown surface kind %v", kind)
		}
	}
}
