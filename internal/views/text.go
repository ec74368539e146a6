package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/crease-labs/matchdesk/internal/logic"
)

var emphasisMarker = map[logic.Emphasis]string{
	logic.EmphasisFavorable:   "+",
	logic.EmphasisUnfavorable: "-",
	logic.EmphasisNeutral:     "=",
}

// WriteText prints a dashboard for a terminal.
func WriteText(w io.Writer, v *logic.DashboardView) error {
	if _, err := fmt.Fprintf(w, "%s (%s)\n%s\n\n", v.Headline, v.ProbabilityText, v.Summary); err != nil {
		return err
	}

	if len(v.Factors) > 0 {
		factors := tablewriter.NewWriter(w)
		factors.SetHeader([]string{"Factor", "Detail", "Advantage"})
		factors.SetAutoWrapText(false)
		for _, f := range v.Factors {
			factors.Append([]string{f.Name, f.Detail, emphasisMarker[f.Emphasis] + " " + f.Advantage})
		}
		factors.Render()
	}

	if v.Placeholder != "" {
		_, err := fmt.Fprintln(w, v.Placeholder)
		return err
	}
	models := tablewriter.NewWriter(w)
	models.SetHeader([]string{"Model", "Prediction", "Confidence", ""})
	for _, m := range v.Models {
		models.Append([]string{m.Name, m.Prediction, m.Confidence, bar(m.BarWidth)})
	}
	models.Render()
	return nil
}

// bar draws a 20 cell gauge for a percentage in [0, 100].
func bar(pct float64) string {
	filled := int(pct/5 + 0.5)
	return strings.Repeat("#", filled) + strings.Repeat(".", 20-filled)
}
