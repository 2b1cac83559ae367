// Package report builds the statistics reports shown by the legacy surface
// and the graphs page.
package report

import (
	"errors"
)

// ErrCardNotFound is returned when a single-card report names a missing card.
var ErrCardNotFound = errors.New("card not found")

// ErrDeckNotFound is returned when an aggregate report names a missing deck.
var ErrDeckNotFound = errors.New("deck not found")

// Report is self-contained markup plus the scripts and stylesheets it needs.
// Asset references use the page-relative scheme ("js/...", "pages/...").
type Report struct {
	HTML    string
	Scripts []string
	Styles  []string
}

// Assets of the card info report.
var (
	CardInfoScripts = []string{"js/bridge.js", "pages/card-info.js"}
	CardInfoStyles  = []string{"pages/card-info-base.css", "pages/card-info.css"}
)

// Assets of the aggregate report. The echarts script is absolute.
var (
	GraphsScripts = []string{"js/bridge.js"}
	GraphsStyles  = []string{"pages/graphs.css"}
)
