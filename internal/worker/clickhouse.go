package worker

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// ClickHouseSink appends audit batches to matchdesk.prediction_audit.
type ClickHouseSink struct {
	conn driver.Conn
}

func NewClickHouseSink(conn driver.Conn) *ClickHouseSink {
	return &ClickHouseSink{conn: conn}
}

func (s *ClickHouseSink) WriteBatch(ctx context.Context, batch []Record) error {
	if len(batch) == 0 {
		return nil
	}

	chBatch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO matchdesk.prediction_audit (
			timestamp, session_id, seq, team1, team2, venue, batting_first,
			team1_players, team2_players, outcome, winner, probability, latency_ms
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare audit batch: %w", err)
	}

	for _, r := range batch {
		err := chBatch.Append(
			r.Timestamp,
			r.SessionID,
			r.Seq,
			r.Team1,
			r.Team2,
			r.Venue,
			r.BattingFirst,
			uint8(r.Team1Players),
			uint8(r.Team2Players),
			r.Outcome,
			r.Winner,
			r.Probability,
			uint32(r.Latency.Milliseconds()),
		)
		if err != nil {
			return fmt.Errorf("append audit record: %w", err)
		}
	}

	if err := chBatch.Send(); err != nil {
		return fmt.Errorf("send audit batch: %w", err)
	}
	return nil
}
