package report

import (
	"html/template"
)

var funcs = template.FuncMap{
	"T": func(r *view, key string, params ...string) string { return r.tr.T(key, params...) },
}

var cardTemplate = template.Must(template.New("card").Funcs(funcs).Parse(`<link href="pages/card-info-print.css" rel="stylesheet" media="print" />
<div id="card-info" class="card-info" data-card-id="{{.Stats.CardID}}">
<h1>{{T . "card_info_title"}}</h1>
<p class="card-sort-field">{{.Stats.SortField}}</p>
<table class="card-stats">
{{- range .Rows}}
<tr><th>{{.Label}}</th><td>{{.Value}}</td></tr>
{{- end}}
</table>
<p class="card-actions"><a href="#" class="browse" onclick="return bridgeCommand('browserSearch:cid:{{.Stats.CardID}}');">{{T . "card_stats_browse"}}</a></p>
{{- if .Revlog}}
<h2>{{T . "card_stats_review_history"}}</h2>
<table class="revlog">
<tr><th>{{T . "card_stats_added"}}</th><th>{{T . "statistics_answers"}}</th><th>{{T . "card_stats_interval"}}</th><th>{{T . "card_stats_ease"}}</th><th>{{T . "card_stats_average_time"}}</th></tr>
{{- range .Revlog}}
<tr class="ease{{.Ease}}"><td>{{.Date}}</td><td>{{.Answer}}</td><td>{{.Interval}}</td><td>{{.EaseFactor}}</td><td>{{.Time}}</td></tr>
{{- end}}
</table>
{{- end}}
</div>`))

var aggregateTemplate = template.Must(template.New("aggregate").Funcs(funcs).Parse(`<div id="deck-stats" class="deck-stats" data-period="{{.Period}}">
<h1>{{.Title}}</h1>
<p class="period">{{.PeriodLabel}} ({{.Range}})</p>
<table class="counts">
{{- range .Counts}}
<tr><th>{{.Label}}</th><td>{{.Value}}</td></tr>
{{- end}}
</table>
<table class="summary">
{{- range .Rows}}
<tr><th>{{.Label}}</th><td>{{.Value}}</td></tr>
{{- end}}
</table>
{{- range .Charts}}
<section class="graph">
{{.}}
</section>
{{- end}}
</div>`))
