package handlers

import (
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/crease-labs/matchdesk/internal/logic"
	"github.com/crease-labs/matchdesk/internal/session"
	"github.com/crease-labs/matchdesk/internal/worker"
)

// MaxBodySize limits the size of request bodies to 64KB
const MaxBodySize = 65536

// SuggestionLimit caps the suggestions returned for one search query.
const SuggestionLimit = 25

// AuditQueue defines the interface for the prediction audit worker pool
type AuditQueue interface {
	Enqueue(rec worker.Record) bool
	QueueDepth() int
}

type Config struct {
	Registry   *logic.Registry
	Sessions   *session.Manager
	Dispatcher *logic.Dispatcher
	AuditQueue AuditQueue
	// Optional backends, pinged by Ready when set
	ClickHouse driver.Conn
	Redis      *redis.Client
	// CSRFToken is used for sessions created without a token of their own.
	CSRFToken      string
	AllowedOrigins []string
	Logger         *zap.Logger
}

type Handler struct {
	registry   *logic.Registry
	sessions   *session.Manager
	dispatcher *logic.Dispatcher
	audit      AuditQueue
	ch         driver.Conn
	redis      *redis.Client
	csrfToken  string
	origins    []string
	logger     *zap.SugaredLogger
	validator  *validator.Validate
}

func New(cfg Config) *Handler {
	audit := cfg.AuditQueue
	if audit == nil {
		audit = discardQueue{}
	}
	return &Handler{
		registry:   cfg.Registry,
		sessions:   cfg.Sessions,
		dispatcher: cfg.Dispatcher,
		audit:      audit,
		ch:         cfg.ClickHouse,
		redis:      cfg.Redis,
		csrfToken:  cfg.CSRFToken,
		origins:    cfg.AllowedOrigins,
		logger:     cfg.Logger.Sugar(),
		validator:  validator.New(),
	}
}

type discardQueue struct{}

func (discardQueue) Enqueue(worker.Record) bool { return true }
func (discardQueue) QueueDepth() int            { return 0 }
