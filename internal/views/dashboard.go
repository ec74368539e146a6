package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/crease-labs/matchdesk/internal/logic"
)

var emphasisClass = map[logic.Emphasis]string{
	logic.EmphasisFavorable:   "advantage-green",
	logic.EmphasisUnfavorable: "advantage-red",
	logic.EmphasisNeutral:     "advantage-neutral",
}

// Dashboard paints the result region. The spinner, content and notice are
// toggled with the d-none class so a script can flip them without a reload.
func Dashboard(d logic.Dashboard) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildDashboardHTML(d))
		return err
	})
}

func buildDashboardHTML(d logic.Dashboard) string {
	var b strings.Builder

	fmt.Fprintf(&b, `<section id="prediction-dashboard" class="%s">`, hiddenUnless(d.Visible))
	if d.Notice != nil {
		fmt.Fprintf(&b, `<div id="prediction-notice" role="alert" class="alert alert-%s">%s</div>`,
			templ.EscapeString(d.Notice.Level), templ.EscapeString(d.Notice.Message))
	}
	fmt.Fprintf(&b, `<div id="spinner" class="spinner-border %s" role="status"></div>`, hiddenUnless(d.Busy))
	fmt.Fprintf(&b, `<div id="prediction-content" class="%s">`, hiddenUnless(d.ContentVisible))
	if d.View != nil {
		b.WriteString(buildResultHTML(d.View))
	}
	b.WriteString(`</div></section>`)
	return b.String()
}

func buildResultHTML(v *logic.DashboardView) string {
	var b strings.Builder

	fmt.Fprintf(&b, `<h2 id="final-prediction-text">%s <span class="text-success">(%s)</span></h2>`,
		templ.EscapeString(v.Headline), templ.EscapeString(v.ProbabilityText))
	fmt.Fprintf(&b, `<p id="prediction-summary">%s</p>`, templ.EscapeString(v.Summary))

	b.WriteString(`<ul id="factor-list" class="list-group">`)
	for _, f := range v.Factors {
		fmt.Fprintf(&b, `<li class="list-group-item d-flex justify-content-between align-items-start">`+
			`<div class="ms-2 me-auto"><div class="fw-bold">%s</div><small class="text-muted">%s</small></div>`+
			`<span class="badge rounded-pill %s">%s</span></li>`,
			templ.EscapeString(f.Name), templ.EscapeString(f.Detail),
			emphasisClass[f.Emphasis], templ.EscapeString(f.Advantage))
	}
	b.WriteString(`</ul>`)

	b.WriteString(`<div id="model-list">`)
	if v.Placeholder != "" {
		fmt.Fprintf(&b, `<p class="text-muted">%s</p>`, templ.EscapeString(v.Placeholder))
	}
	for _, m := range v.Models {
		fmt.Fprintf(&b, `<div class="mb-3"><div class="d-flex justify-content-between">`+
			`<span class="fw-bold">%s</span><span>%s (%s)</span></div>`+
			`<div class="progress" role="progressbar" aria-valuenow="%g" aria-valuemin="0" aria-valuemax="100">`+
			`<div class="progress-bar" style="width: %g%%"></div></div></div>`,
			templ.EscapeString(m.Name), templ.EscapeString(m.Prediction), templ.EscapeString(m.Confidence),
			m.BarWidth, m.BarWidth)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func hiddenUnless(visible bool) string {
	if visible {
		return ""
	}
	return "d-none"
}
