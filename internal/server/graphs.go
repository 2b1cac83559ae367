package server

import (
	"context"
	"errors"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ramonehamilton/deckstats/internal/i18n"
	"github.com/ramonehamilton/deckstats/internal/report"
	"github.com/ramonehamilton/deckstats/internal/selection"
)

// GraphsSource builds the report shown on the graphs page.
type GraphsSource interface {
	Aggregate(ctx context.Context, subject selection.Subject, period selection.Period) (*report.Report, error)
}

// Labels resolves localized strings.
type Labels interface {
	T(key string, params ...string) string
}

// Scope query values of the graphs page.
const (
	ScopeDeck       = "deck"
	ScopeCollection = "collection"
)

type graphsLink struct {
	Label  string
	Href   string
	Active bool
}

type graphsPage struct {
	Styles  []string
	Scripts []string
	Scopes  []graphsLink
	Periods []graphsLink
	Body    template.HTML
}

var graphsTemplate = template.Must(template.New("graphs").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
{{range .Styles}}<link href="{{.}}" rel="stylesheet" />
{{end}}{{range .Scripts}}<script src="{{.}}"></script>
{{end}}</head>
<body>
<nav class="controls">
{{range .Scopes}}<a href="{{.Href}}"{{if .Active}} class="active"{{end}}>{{.Label}}</a>
{{end}}|
{{range .Periods}}<a href="{{.Href}}"{{if .Active}} class="active"{{end}}>{{.Label}}</a>
{{end}}</nav>
{{.Body}}
</body>
</html>
`))

// graphsQuery is the parsed query of a graphs page request.
type graphsQuery struct {
	subject selection.Subject
	period  selection.Period
}

func parseGraphsQuery(q url.Values) (graphsQuery, error) {
	var gq graphsQuery
	if d := q.Get("deck"); d != "" {
		id, err := strconv.ParseInt(d, 10, 64)
		if err != nil {
			return gq, errors.New("invalid deck id")
		}
		gq.subject.DeckID = id
	}
	switch q.Get("scope") {
	case "", ScopeDeck:
		if gq.subject.DeckID == 0 {
			return gq, errors.New("deck is required")
		}
	case ScopeCollection:
		gq.subject.WholeCollection = true
	default:
		return gq, errors.New("invalid scope")
	}
	if p := q.Get("period"); p != "" {
		period, err := selection.ParsePeriod(p)
		if err != nil {
			return gq, err
		}
		gq.period = period
	}
	return gq, nil
}

func (gq graphsQuery) href(whole bool, period selection.Period) string {
	v := url.Values{}
	if gq.subject.DeckID != 0 {
		v.Set("deck", strconv.FormatInt(gq.subject.DeckID, 10))
	}
	if whole {
		v.Set("scope", ScopeCollection)
	} else {
		v.Set("scope", ScopeDeck)
	}
	v.Set("period", period.String())
	return "graphs?" + v.Encode()
}

// graphs renders the paginated statistics page. Its scope and period links
// request the page again with new query parameters.
func (s *Server) graphs(w http.ResponseWriter, r *http.Request) {
	gq, err := parseGraphsQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rep, err := s.graphsSource.Aggregate(r.Context(), gq.subject, gq.period)
	if err != nil {
		if errors.Is(err, report.ErrDeckNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("[Server] Failed to build graphs for %s: %v", gq.subject, err)
		http.Error(w, "failed to build report", http.StatusInternalServerError)
		return
	}

	page := graphsPage{
		Styles:  rep.Styles,
		Scripts: rep.Scripts,
		Body:    template.HTML(rep.HTML),
	}
	if gq.subject.DeckID != 0 {
		page.Scopes = append(page.Scopes, graphsLink{
			Label:  s.labels.T(i18n.Deck),
			Href:   gq.href(false, gq.period),
			Active: !gq.subject.WholeCollection,
		})
	}
	page.Scopes = append(page.Scopes, graphsLink{
		Label:  s.labels.T(i18n.CollectionStat),
		Href:   gq.href(true, gq.period),
		Active: gq.subject.WholeCollection,
	})
	for _, p := range []struct {
		period selection.Period
		key    string
	}{
		{selection.PeriodMonth, i18n.PeriodMonth},
		{selection.PeriodYear, i18n.PeriodYear},
		{selection.PeriodLife, i18n.PeriodLife},
	} {
		page.Periods = append(page.Periods, graphsLink{
			Label:  s.labels.T(p.key),
			Href:   gq.href(gq.subject.WholeCollection, p.period),
			Active: gq.period == p.period,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := graphsTemplate.Execute(w, page); err != nil {
		log.Printf("[Server] Render graphs page: %v", err)
	}
}
