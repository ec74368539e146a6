package predictor

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/crease-labs/matchdesk/internal/models"
)

// Wire field names of the prediction form.
const (
	FieldCSRFToken         = "csrfmiddlewaretoken"
	FieldTeam1             = "team1"
	FieldTeam2             = "team2"
	FieldVenue             = "venue"
	FieldBattingFirst      = "batting_first"
	FieldFirstInningsTotal = "first_innings_total"
	FieldTeam1Players      = "team1_players[]"
	FieldTeam2Players      = "team2_players[]"
)

// maxFormMemory bounds in-memory parsing of a decoded form.
const maxFormMemory = 1 << 20

// EncodeForm writes req as multipart/form-data. Every roster member becomes one
// repeated field, in roster order. It returns the body and its content type.
func EncodeForm(req models.PredictionRequest) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	fields := [][2]string{
		{FieldCSRFToken, req.CSRFToken},
		{FieldTeam1, req.Team1},
		{FieldTeam2, req.Team2},
		{FieldVenue, req.Venue},
		{FieldBattingFirst, req.BattingFirst},
		{FieldFirstInningsTotal, req.FirstInningsTotal},
	}
	for _, p := range req.Team1Players {
		fields = append(fields, [2]string{FieldTeam1Players, p})
	}
	for _, p := range req.Team2Players {
		fields = append(fields, [2]string{FieldTeam2Players, p})
	}

	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f[0], err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return body, mw.FormDataContentType(), nil
}

// DecodeForm reads a prediction form back from r. Both multipart and
// URL-encoded bodies are accepted.
func DecodeForm(r *http.Request) (models.PredictionRequest, error) {
	var values url.Values
	err := r.ParseMultipartForm(maxFormMemory)
	switch {
	case err == nil:
		values = url.Values(r.MultipartForm.Value)
	case errors.Is(err, http.ErrNotMultipart):
		if err := r.ParseForm(); err != nil {
			return models.PredictionRequest{}, fmt.Errorf("parse form: %w", err)
		}
		values = r.PostForm
	default:
		return models.PredictionRequest{}, fmt.Errorf("parse multipart form: %w", err)
	}

	return models.PredictionRequest{
		CSRFToken:         values.Get(FieldCSRFToken),
		Team1:             values.Get(FieldTeam1),
		Team2:             values.Get(FieldTeam2),
		Venue:             values.Get(FieldVenue),
		BattingFirst:      values.Get(FieldBattingFirst),
		FirstInningsTotal: values.Get(FieldFirstInningsTotal),
		Team1Players:      values[FieldTeam1Players],
		Team2Players:      values[FieldTeam2Players],
	}, nil
}
