package models

import (
	"errors"
	"testing"
)

func TestParsePredictionResponse_Success(t *testing.T) {
	body := `{
		"final_prediction": {"winner": "India", "probability": 62},
		"statistical_factors": [
			{"name": "Head to head", "detail": "India lead 12-7", "advantage": "India"},
			{"name": "Pitch", "detail": "Balanced", "advantage": "Neutral"}
		],
		"ml_models": [{"name": "Random Forest", "prediction": "India", "confidence": "71.5"}]
	}`

	resp, err := ParsePredictionResponse([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Failed() {
		t.Fatalf("expected result, got error %q", resp.Error)
	}
	if resp.Result.FinalPrediction.Winner != "India" || resp.Result.FinalPrediction.Probability != 62 {
		t.Errorf("final prediction = %+v", resp.Result.FinalPrediction)
	}
	if len(resp.Result.StatisticalFactors) != 2 {
		t.Errorf("factors = %d, want 2", len(resp.Result.StatisticalFactors))
	}
	if resp.Result.MLModels[0].Confidence != 71.5 {
		t.Errorf("confidence = %v, want 71.5", resp.Result.MLModels[0].Confidence)
	}
}

func TestParsePredictionResponse_ErrorWins(t *testing.T) {
	// Other fields are ignored, even when they would not parse.
	body := `{"error": "timeout", "final_prediction": "garbage"}`

	resp, err := ParsePredictionResponse([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Failed() || resp.Error != "timeout" {
		t.Errorf("got %+v, want error variant with timeout", resp)
	}
}

func TestParsePredictionResponse_EmptyModelsIsValid(t *testing.T) {
	body := `{"error": "", "final_prediction": {"winner": "Toss-up", "probability": 50}, "statistical_factors": [], "ml_models": []}`

	resp, err := ParsePredictionResponse([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Failed() {
		t.Fatalf("empty error string must not count as an error")
	}
	if resp.Result.MLModels == nil || len(resp.Result.MLModels) != 0 {
		t.Errorf("ml_models = %#v, want empty non-nil slice", resp.Result.MLModels)
	}
}

func TestParsePredictionResponse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Not JSON", `<html>502</html>`},
		{"Missing final_prediction", `{"statistical_factors": [], "ml_models": []}`},
		{"Missing factors", `{"final_prediction": {"winner": "India", "probability": 60}, "ml_models": []}`},
		{"Missing models", `{"final_prediction": {"winner": "India", "probability": 60}, "statistical_factors": []}`},
		{"Probability missing", `{"final_prediction": {"winner": "India"}, "statistical_factors": [], "ml_models": []}`},
		{"Probability null", `{"final_prediction": {"winner": "India", "probability": null}, "statistical_factors": [], "ml_models": []}`},
		{"Winner null", `{"final_prediction": {"winner": null, "probability": 60}, "statistical_factors": [], "ml_models": []}`},
		{"Final prediction null", `{"final_prediction": null, "statistical_factors": [], "ml_models": []}`},
		{"Factors null", `{"final_prediction": {"winner": "India", "probability": 60}, "statistical_factors": null, "ml_models": []}`},
		{"Factor without detail", `{"final_prediction": {"winner": "India", "probability": 60}, "statistical_factors": [{"name": "Pitch", "advantage": "India"}], "ml_models": []}`},
		{"Model without confidence", `{"final_prediction": {"winner": "India", "probability": 60}, "statistical_factors": [], "ml_models": [{"name": "LR", "prediction": "India"}]}`},
		{"Model confidence null", `{"final_prediction": {"winner": "India", "probability": 60}, "statistical_factors": [], "ml_models": [{"name": "LR", "prediction": "India", "confidence": null}]}`},
		{"Probability not a number", `{"final_prediction": {"winner": "India", "probability": "high"}, "statistical_factors": [], "ml_models": []}`},
		{"Winner missing", `{"final_prediction": {"probability": 60}, "statistical_factors": [], "ml_models": []}`},
		{"Non-string error", `{"error": {"code": 1}}`},
		{"Factor without name", `{"final_prediction": {"winner": "India", "probability": 60}, "statistical_factors": [{"advantage": "India"}], "ml_models": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePredictionResponse([]byte(tt.body))
			if !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestParsePredictionResponse_KeepsValuesAsSent(t *testing.T) {
	// Only the shape is checked: out-of-range numbers and empty strings are
	// rendered as the service sent them.
	body := `{
		"final_prediction": {"winner": "India", "probability": 0},
		"statistical_factors": [{"name": "", "detail": "", "advantage": "India"}],
		"ml_models": [{"name": "", "prediction": "India", "confidence": 100.4}]
	}`

	resp, err := ParsePredictionResponse([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Result.FinalPrediction.Probability != 0 {
		t.Errorf("probability = %v, want 0", resp.Result.FinalPrediction.Probability)
	}
	m := resp.Result.MLModels[0]
	if m.Confidence != 100.4 || m.Confidence.Clamp() != 100 {
		t.Errorf("confidence = %v (clamped %v)", m.Confidence, m.Confidence.Clamp())
	}
	if resp.Result.StatisticalFactors[0].Name != "" {
		t.Errorf("factor name = %q", resp.Result.StatisticalFactors[0].Name)
	}
}

func TestParseSide(t *testing.T) {
	tests := []struct {
		raw  string
		want Side
		ok   bool
	}{
		{"1", SideA, true},
		{"b", SideB, true},
		{"Team2", SideB, true},
		{"3", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseSide(tt.raw)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseSide(%q) = %v, %v", tt.raw, got, err)
		}
	}
}
