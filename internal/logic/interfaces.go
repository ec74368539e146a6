package logic

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/crease-labs/matchdesk/internal/models"
)

// PgPool defines the slice of the PostgreSQL pool used to load rosters
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Predictor performs one call to the remote prediction service.
// A non-nil error is a transport or parse failure; application errors come back
// as the Error variant of the response.
type Predictor interface {
	Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error)
}
