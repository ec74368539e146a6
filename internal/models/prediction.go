package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Advantage values with special meaning in a prediction payload.
const (
	NeutralAdvantage = "Neutral"
	TossUpWinner     = "Toss-up"
)

// ErrMalformedResponse marks a prediction payload that could not be parsed into
// either an error or a complete result.
var ErrMalformedResponse = errors.New("malformed prediction response")

var validate = validator.New()

// FinalPrediction is the headline verdict of a prediction
type FinalPrediction struct {
	Winner      string  `json:"winner"`
	Probability Percent `json:"probability"`
}

// StatisticalFactor is one indicator considered by the service and which team it favours.
type StatisticalFactor struct {
	Name      string `json:"name"`
	Detail    string `json:"detail"`
	Advantage string `json:"advantage"`
}

// MLModel is a per-model sub-prediction
type MLModel struct {
	Name       string  `json:"name"`
	Prediction string  `json:"prediction"`
	Confidence Percent `json:"confidence"`
}

// PredictionResult is a fully structured, successful prediction.
type PredictionResult struct {
	FinalPrediction    FinalPrediction     `json:"final_prediction"`
	StatisticalFactors []StatisticalFactor `json:"statistical_factors"`
	MLModels           []MLModel           `json:"ml_models"`
}

// PredictionResponse is either an application error reported by the service or a result.
// Exactly one of Error and Result is set.
type PredictionResponse struct {
	Error  string
	Result *PredictionResult
}

// Failed reports whether the service answered with an application error.
func (r *PredictionResponse) Failed() bool {
	return r.Result == nil
}

// Wire types mirror the payload with pointer fields so that a missing key or
// null is told apart from a zero value. Only presence and type are checked;
// values such as a confidence above 100 are rendered as sent.
type wireResult struct {
	FinalPrediction    *wireFinal   `json:"final_prediction" validate:"required"`
	StatisticalFactors []wireFactor `json:"statistical_factors" validate:"required,dive"`
	MLModels           []wireModel  `json:"ml_models" validate:"required,dive"`
}

type wireFinal struct {
	Winner      *string  `json:"winner" validate:"required"`
	Probability *Percent `json:"probability" validate:"required"`
}

type wireFactor struct {
	Name      *string `json:"name" validate:"required"`
	Detail    *string `json:"detail" validate:"required"`
	Advantage *string `json:"advantage" validate:"required"`
}

type wireModel struct {
	Name       *string  `json:"name" validate:"required"`
	Prediction *string  `json:"prediction" validate:"required"`
	Confidence *Percent `json:"confidence" validate:"required"`
}

func (w *wireResult) result() *PredictionResult {
	r := &PredictionResult{
		FinalPrediction: FinalPrediction{
			Winner:      *w.FinalPrediction.Winner,
			Probability: *w.FinalPrediction.Probability,
		},
		StatisticalFactors: make([]StatisticalFactor, 0, len(w.StatisticalFactors)),
		MLModels:           make([]MLModel, 0, len(w.MLModels)),
	}
	for _, f := range w.StatisticalFactors {
		r.StatisticalFactors = append(r.StatisticalFactors, StatisticalFactor{
			Name:      *f.Name,
			Detail:    *f.Detail,
			Advantage: *f.Advantage,
		})
	}
	for _, m := range w.MLModels {
		r.MLModels = append(r.MLModels, MLModel{
			Name:       *m.Name,
			Prediction: *m.Prediction,
			Confidence: *m.Confidence,
		})
	}
	return r
}

// ParsePredictionResponse validates a raw service payload at the boundary.
// A non-empty "error" wins over every other field. Without it, every key of the
// result shape must be present and non-null; anything else is reported as
// ErrMalformedResponse so nothing is ever partially rendered.
func ParsePredictionResponse(data []byte) (*PredictionResponse, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if raw, ok := envelope["error"]; ok && string(raw) != "null" {
		var msg string
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, fmt.Errorf("%w: error field: %v", ErrMalformedResponse, err)
		}
		if msg != "" {
			return &PredictionResponse{Error: msg}, nil
		}
	}

	var wire wireResult
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := validate.Struct(&wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	result := wire.result()
	return &PredictionResponse{Result: result}, nil
}
