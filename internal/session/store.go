// Package session keeps the controller state of live page sessions.
// Sessions expire after a TTL and are never written to durable storage.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/crease-labs/matchdesk/internal/logic"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Store persists sessions for the duration of their TTL
type Store interface {
	Get(ctx context.Context, id string) (*logic.Session, error)
	Save(ctx context.Context, s *logic.Session) error
	Delete(ctx context.Context, id string) error
}

func encode(s *logic.Session) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	return data, nil
}

func decode(id string, data []byte) (*logic.Session, error) {
	var s logic.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}
