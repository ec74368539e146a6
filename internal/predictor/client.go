// Package predictor talks to the remote prediction service.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/crease-labs/matchdesk/internal/models"
)

// MaxResponseSize limits how much of a response body is read (1MB)
const MaxResponseSize = 1048576

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchdesk_prediction_requests_total",
		Help: "Prediction service calls by outcome",
	}, []string{"outcome"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "matchdesk_prediction_request_duration_seconds",
		Help:    "Duration of prediction service calls",
		Buckets: prometheus.DefBuckets,
	})
)

// Config configures the prediction client
type Config struct {
	URL     string
	Timeout time.Duration
	// Breaker trips after BreakerFailures consecutive transport failures and
	// probes again after BreakerCooldown.
	BreakerFailures uint32
	BreakerCooldown time.Duration
	HTTPClient      *http.Client
	Logger          *zap.Logger
}

// Client posts match setups to the prediction endpoint.
type Client struct {
	url     string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.SugaredLogger
}

// New creates a client with defaults for unset fields.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = 30 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	logger := cfg.Logger.Sugar()

	settings := gobreaker.Settings{
		Name:        "prediction-service",
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warnw("Circuit breaker state changed",
				"service", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &Client{
		url:     cfg.URL,
		http:    cfg.HTTPClient,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// Predict sends req and parses the reply. The body is parsed whatever the
// status code, since the service reports application errors as JSON with a
// non-2xx status; only an unparseable body is a failure.
func (c *Client) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error) {
	start := time.Now()
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.do(ctx, req)
	})
	requestDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			requestsTotal.WithLabelValues("breaker_open").Inc()
		} else {
			requestsTotal.WithLabelValues("transport_error").Inc()
		}
		return nil, err
	}

	resp := out.(*models.PredictionResponse)
	if resp.Failed() {
		requestsTotal.WithLabelValues("app_error").Inc()
	} else {
		requestsTotal.WithLabelValues("success").Inc()
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error) {
	body, contentType, err := EncodeForm(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("build prediction request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	if req.CSRFToken != "" {
		httpReq.Header.Set("X-CSRFToken", req.CSRFToken)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("prediction request: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read prediction response: %w", err)
	}

	resp, err := models.ParsePredictionResponse(raw)
	if err != nil {
		c.logger.Warnw("Unparseable prediction response",
			"status", httpResp.StatusCode,
			"bytes", len(raw),
			"error", err,
		)
		return nil, fmt.Errorf("prediction response (status %d): %w", httpResp.StatusCode, err)
	}
	return resp, nil
}
