package logic

import (
	"fmt"

	"github.com/crease-labs/matchdesk/internal/models"
)

// Emphasis is the visual treatment of a statistical factor.
type Emphasis string

const (
	EmphasisFavorable   Emphasis = "favorable"
	EmphasisUnfavorable Emphasis = "unfavorable"
	EmphasisNeutral     Emphasis = "neutral"
)

// ModelPlaceholder replaces the model list when the service returned no models.
const ModelPlaceholder = "ML model predictions require a venue to be selected."

// FactorRow is one display row of the factor breakdown
type FactorRow struct {
	Name      string   `json:"name"`
	Detail    string   `json:"detail"`
	Advantage string   `json:"advantage"`
	Emphasis  Emphasis `json:"emphasis"`
}

// ModelRow is one display row of the model breakdown. BarWidth is a
// percentage already clamped to [0, 100].
type ModelRow struct {
	Name       string  `json:"name"`
	Prediction string  `json:"prediction"`
	Confidence string  `json:"confidence"`
	BarWidth   float64 `json:"bar_width"`
}

// DashboardView is what the dashboard displays for one result.
type DashboardView struct {
	Winner          string      `json:"winner"`
	Headline        string      `json:"headline"`
	ProbabilityText string      `json:"probability_text"`
	Summary         string      `json:"summary"`
	Factors         []FactorRow `json:"factors"`
	Models          []ModelRow  `json:"models"`
	Placeholder     string      `json:"placeholder,omitempty"`
}

// ClassifyAdvantage decides how a factor is emphasised relative to the predicted winner.
// A "Toss-up" advantage under a "Toss-up" winner is unfavorable: a toss-up
// never favours anyone and only "Neutral" or an empty advantage reads neutral.
func ClassifyAdvantage(advantage, winner string) Emphasis {
	switch {
	case advantage == winner && winner != models.TossUpWinner:
		return EmphasisFavorable
	case advantage == "" || advantage == models.NeutralAdvantage:
		return EmphasisNeutral
	}
	return EmphasisUnfavorable
}

// Render builds the display model of a result. It is a pure function of result;
// factors and models keep the order the service sent them in.
func Render(result *models.PredictionResult) *DashboardView {
	fp := result.FinalPrediction
	view := &DashboardView{
		Winner:          fp.Winner,
		Headline:        fp.Winner + " to Win",
		ProbabilityText: fp.Probability.String() + "%",
		Summary: fmt.Sprintf("Prediction based on a weighted analysis of %d statistical factors and %d machine learning models.",
			len(result.StatisticalFactors), len(result.MLModels)),
		Factors: make([]FactorRow, 0, len(result.StatisticalFactors)),
		Models:  make([]ModelRow, 0, len(result.MLModels)),
	}

	for _, f := range result.StatisticalFactors {
		view.Factors = append(view.Factors, FactorRow{
			Name:      f.Name,
			Detail:    f.Detail,
			Advantage: f.Advantage,
			Emphasis:  ClassifyAdvantage(f.Advantage, fp.Winner),
		})
	}

	for _, m := range result.MLModels {
		view.Models = append(view.Models, ModelRow{
			Name:       m.Name,
			Prediction: m.Prediction,
			Confidence: m.Confidence.String() + "%",
			BarWidth:   m.Confidence.Clamp(),
		})
	}
	if len(view.Models) == 0 {
		view.Placeholder = ModelPlaceholder
	}
	return view
}
