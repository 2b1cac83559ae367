package surface

// Host is the web view region a surface renders into.
//
// Host callbacks may arrive on any goroutine; surfaces hop them onto the UI loop.
type Host interface {
	// Navigate loads a page-relative URL served by the application.
	Navigate(url string) error

	// SetHTML replaces the view with a complete document.
	SetHTML(document string) error

	// Eval runs script and reports its string result. done is called exactly once.
	Eval(script string, done func(result string, err error))

	// Reset blanks the view and fails any pending evaluations.
	Reset() error
}

// PDFHost is implemented by hosts that can print their own content.
type PDFHost interface {
	PrintToPDF(path string, done func(err error))
}

// Printer renders a document snapshot to a PDF file.
type Printer interface {
	PrintHTML(document, path string) error
}
