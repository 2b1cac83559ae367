package events

// Event types.
const (
	TypeViewChanged   = "stats:view-changed"
	TypeTooltip       = "stats:tooltip"
	TypeNotice        = "stats:notice"
	TypePDFSaved      = "stats:pdf-saved"
	TypeClosed        = "stats:closed"
	TypeBrowserSearch = "browser:search"
	TypeAssetsChanged = "assets:changed"
)

// ViewChangedEvent is sent whenever the selection or the mounted surface changes.
type ViewChangedEvent struct {
	Selection string `json:"selection"` // e.g. "deck:42/month", "card:777"
	Surface   string `json:"surface"`   // "paginated" or "legacy"
	DeckID    int64  `json:"deckId,omitempty"`
	CardID    int64  `json:"cardId,omitempty"`
}

// TooltipEvent is a transient confirmation such as "Saved.".
type TooltipEvent struct {
	Message string `json:"message"`
}

// NoticeEvent reports a non-fatal failure to the user.
type NoticeEvent struct {
	Kind    string `json:"kind"` // "persistence", "report", "export"
	Message string `json:"message"`
}

// PDFSavedEvent is sent after an export was written.
type PDFSavedEvent struct {
	Path string `json:"path"`
}

// ClosedEvent is sent when a statistics dialog closes.
type ClosedEvent struct {
	Name string `json:"name"`
}

// BrowserSearchEvent asks the card browser to open and run a search.
type BrowserSearchEvent struct {
	Query string `json:"query"`
}

// AssetsChangedEvent is sent when an override asset changed on disk.
type AssetsChangedEvent struct {
	Path string `json:"path"`
}
