package export

import (
	"html/template"
	"io"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"github.com/sells-group/agent-miner/internal/model"
)

// Limits of the HTML summary.
const (
	HTMLTopAgents      = 10
	HTMLTestimonials   = 3
	HTMLTestimonialLen = 300
)

var summaryTemplate = template.Must(template.New("summary").Funcs(template.FuncMap{
	"topAgents": func(agents []model.AgentRecord) []model.AgentRecord {
		return head(agents, HTMLTopAgents)
	},
	"testimonials": func(t []string) []string {
		return head(t, HTMLTestimonials)
	},
	"truncate": func(s string) string {
		return truncate(s, HTMLTestimonialLen)
	},
}).Parse(`<!doctype html>
<html><head><meta charset="utf-8">
<title>Agentes Inmobiliarios</title>
<style>
body{font-family:Arial,sans-serif;background:#f5f5f5;padding:20px;line-height:1.6}
.header{background:#2c3e50;color:white;padding:20px;border-radius:8px;margin-bottom:20px}
.agency{background:white;border:1px solid #ddd;border-radius:8px;margin:15px 0;padding:20px}
.agent-card{background:#f8f9fa;border-left:4px solid #3498db;padding:15px;margin:10px 0}
.testimonial{background:white;border:1px solid #e0e0e0;padding:10px;margin:5px 0;font-size:13px}
</style></head><body>
<div class="header"><h1>Agentes Inmobiliarios</h1></div>
{{- range .}}
<div class="agency">
<h2>{{.AgencyName}}</h2>
<p>{{.TotalReviews}} reseñas | {{.ReviewsWithAgents}} con agentes</p>
{{- if .AgencyRef}}
<p><a href="{{.AgencyRef}}" target="_blank">Ver en Google Maps</a></p>
{{- end}}
{{- range topAgents .Agents}}
<div class="agent-card">
<h3>{{.CanonicalName}} ({{.TotalMentions}} menciones)</h3>
{{- range testimonials .SampleTestimonials}}
<div class="testimonial">{{truncate .}}</div>
{{- end}}
</div>
{{- end}}
</div>
{{- end}}
</body></html>
`))

// WriteHTML renders the per-agency summary page.
func WriteHTML(w io.Writer, reports []model.AgencyReport) error {
	return eris.Wrap(summaryTemplate.Execute(w, reports), "export: render html")
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// truncate cuts s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
