package views

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/crease-labs/matchdesk/internal/logic"
)

// PageData is everything the setup page needs besides the session itself.
type PageData struct {
	Session logic.SessionView
	// Teams lists the selectable teams, sorted.
	Teams []string
	// Suggestions holds the datalist contents per side.
	Suggestions [2][]string
	// Flash is a one-shot validation message from the previous form action.
	Flash string
}

// Page paints the full setup page. Every control is a plain form so the page
// works without scripts; each action redirects back here.
func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<title>Match Prediction</title></head><body><main class="container">`); err != nil {
			return err
		}
		if _, err := io.WriteString(w, buildSetupHTML(data)); err != nil {
			return err
		}
		if err := Dashboard(data.Session.Dashboard).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

func buildSetupHTML(data PageData) string {
	var b strings.Builder
	setup := data.Session.Setup
	base := "/s/" + url.PathEscape(data.Session.ID)

	if data.Flash != "" {
		fmt.Fprintf(&b, `<div id="flash" role="alert" class="alert alert-warning">%s</div>`, templ.EscapeString(data.Flash))
	}

	b.WriteString(`<div class="row">`)
	for i, side := range setup.Sides {
		b.WriteString(buildSideHTML(base, side, data.Teams, data.Suggestions[i]))
	}
	b.WriteString(`</div>`)

	// Venue
	fmt.Fprintf(&b, `<form method="post" action="%s/venue"><label for="venue">Venue</label>`+
		`<input id="venue" name="venue" value="%s"><button type="submit">Set</button></form>`,
		base, templ.EscapeString(setup.Venue))

	// Batting first
	fmt.Fprintf(&b, `<form method="post" action="%s/batting-first"><label for="batting-first">Batting First</label>`+
		`<select id="batting-first" name="batting_first"%s><option value="">%s</option>`,
		base, disabledUnless(setup.BattingEnabled), logic.BattingPlaceholder)
	for _, team := range setup.BattingOptions {
		fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`,
			templ.EscapeString(team), selectedIf(team == setup.BattingFirst), templ.EscapeString(team))
	}
	fmt.Fprintf(&b, `</select><button type="submit"%s>Set</button></form>`, disabledUnless(setup.BattingEnabled))

	// First innings total
	fmt.Fprintf(&b, `<form method="post" action="%s/first-innings-total"><label for="first-innings-total">First Innings Total</label>`+
		`<input id="first-innings-total" name="first_innings_total" type="number" min="0" value="%s"%s>`+
		`<button type="submit"%s>Set</button></form>`,
		base, templ.EscapeString(setup.FirstInningsTotal),
		disabledUnless(setup.FirstInningsEnabled), disabledUnless(setup.FirstInningsEnabled))

	fmt.Fprintf(&b, `<form method="post" action="%s/predict"><button id="predict-btn" type="submit">Predict</button></form>`, base)
	fmt.Fprintf(&b, `<form method="post" action="%s/reset"><button id="reset-btn" type="submit">Start Over</button></form>`, base)
	return b.String()
}

func buildSideHTML(base string, side logic.SideView, teams, suggestions []string) string {
	var b strings.Builder
	n := int(side.Side)
	sideBase := fmt.Sprintf("%s/teams/%d", base, n)

	fmt.Fprintf(&b, `<div class="col" id="team%d-panel">`, n)
	fmt.Fprintf(&b, `<form method="post" action="%s"><select id="team%d" name="team"><option value="">%s</option>`,
		sideBase, n, logic.BattingPlaceholder)
	for _, team := range teams {
		fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`,
			templ.EscapeString(team), selectedIf(team == side.Team), templ.EscapeString(team))
	}
	b.WriteString(`</select><button type="submit">Choose</button></form>`)

	fmt.Fprintf(&b, `<h3 id="team%d-squad-title">%s</h3>`, n, templ.EscapeString(side.Label))
	fmt.Fprintf(&b, `<span id="team%d-count" class="badge %s">%s</span>`,
		n, completeClass(side.Complete), templ.EscapeString(side.CountLabel))

	fmt.Fprintf(&b, `<div id="team%d-squad">`, n)
	for _, e := range side.Entries {
		fmt.Fprintf(&b, `<form method="post" action="%s/rosters/%d/players/remove" class="player-tag">`+
			`<input type="hidden" name="player" value="%s"><span>%s</span>`+
			`<button type="submit" aria-label="Remove">&times;</button></form>`,
			base, n, templ.EscapeString(e.Player), templ.EscapeString(e.Player))
	}
	b.WriteString(`</div>`)

	fmt.Fprintf(&b, `<form method="post" action="%s/rosters/%d/players">`+
		`<input id="team%d-player-search" name="player" list="team%d-players" autocomplete="off"%s>`+
		`<datalist id="team%d-players">`,
		base, n, n, n, disabledUnless(side.SearchEnabled), n)
	for _, p := range suggestions {
		fmt.Fprintf(&b, `<option value="%s">`, templ.EscapeString(p))
	}
	fmt.Fprintf(&b, `</datalist><button type="submit"%s>Add</button></form></div>`, disabledUnless(side.SearchEnabled))
	return b.String()
}

func disabledUnless(enabled bool) string {
	if enabled {
		return ""
	}
	return " disabled"
}

func selectedIf(selected bool) string {
	if selected {
		return " selected"
	}
	return ""
}

func completeClass(complete bool) string {
	if complete {
		return "bg-success"
	}
	return "bg-secondary"
}
