package logic

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/crease-labs/matchdesk/internal/models"
)

// MockPredictor
type MockPredictor struct {
	PredictFunc func(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error)
	Calls       int
	LastRequest models.PredictionRequest
}

func (m *MockPredictor) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error) {
	m.Calls++
	m.LastRequest = req
	if m.PredictFunc != nil {
		return m.PredictFunc(ctx, req)
	}
	return &models.PredictionResponse{Result: &models.PredictionResult{
		FinalPrediction:    models.FinalPrediction{Winner: req.Team1, Probability: 55},
		StatisticalFactors: []models.StatisticalFactor{},
		MLModels:           []models.MLModel{},
	}}, nil
}

// MockPgPool
type MockPgPool struct {
	QueryFunc func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (m *MockPgPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, sql, args...)
	}
	return &MockRows{}, nil
}

// MockRows serves fixed (team, player) tuples.
type MockRows struct {
	pgx.Rows
	Data   [][2]string
	pos    int
	closed bool
}

func (m *MockRows) Next() bool {
	if m.pos >= len(m.Data) {
		return false
	}
	m.pos++
	return true
}

func (m *MockRows) Scan(dest ...any) error {
	if len(dest) != 2 {
		return fmt.Errorf("expected 2 destinations, got %d", len(dest))
	}
	row := m.Data[m.pos-1]
	*dest[0].(*string) = row[0]
	*dest[1].(*string) = row[1]
	return nil
}

func (m *MockRows) Close()     { m.closed = true }
func (m *MockRows) Err() error { return nil }

func testRegistry() *Registry {
	return NewRegistry(map[string][]string{
		"India":     {"Rohit Sharma", "Virat Kohli", "Shubman Gill", "KL Rahul", "Hardik Pandya", "Ravindra Jadeja", "Rishabh Pant", "Jasprit Bumrah", "Mohammed Siraj", "Kuldeep Yadav", "Axar Patel", "Suryakumar Yadav"},
		"Australia": {"Pat Cummins", "Steve Smith", "Travis Head", "Mitchell Starc"},
		"Nowhere":   {},
	})
}
