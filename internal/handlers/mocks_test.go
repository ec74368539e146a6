package handlers

import (
	"context"
	"sync"

	"github.com/crease-labs/matchdesk/internal/models"
	"github.com/crease-labs/matchdesk/internal/worker"
)

// MockPredictor
type MockPredictor struct {
	PredictFunc func(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error)

	mu    sync.Mutex
	calls int
}

func (m *MockPredictor) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.PredictFunc != nil {
		return m.PredictFunc(ctx, req)
	}
	return &models.PredictionResponse{Result: &models.PredictionResult{
		FinalPrediction: models.FinalPrediction{Winner: req.Team1, Probability: 62},
		StatisticalFactors: []models.StatisticalFactor{
			{Name: "Recent form", Detail: "Won 4 of last 5", Advantage: req.Team1},
		},
		MLModels: []models.MLModel{},
	}}, nil
}

func (m *MockPredictor) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockAuditQueue
type MockAuditQueue struct {
	EnqueueFunc func(rec worker.Record) bool

	mu      sync.Mutex
	Records []worker.Record
}

func (m *MockAuditQueue) Enqueue(rec worker.Record) bool {
	m.mu.Lock()
	m.Records = append(m.Records, rec)
	m.mu.Unlock()
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(rec)
	}
	return true
}

func (m *MockAuditQueue) QueueDepth() int { return 0 }
