package worker

import (
	"context"
	"sync"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// MockSink collects written batches
type MockSink struct {
	mu      sync.Mutex
	Batches [][]Record
	Err     error
}

func (m *MockSink) WriteBatch(ctx context.Context, batch []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Batches = append(m.Batches, append([]Record(nil), batch...))
	return m.Err
}

func (m *MockSink) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.Batches {
		n += len(b)
	}
	return n
}

// MockClickHouseConn only implements PrepareBatch
type MockClickHouseConn struct {
	driver.Conn
	PreparedQuery string
	Batch         *MockBatch
}

func (m *MockClickHouseConn) PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error) {
	m.PreparedQuery = query
	return m.Batch, nil
}

type MockBatch struct {
	driver.Batch
	AppendedRows [][]any
	Sent         bool
}

func (m *MockBatch) Append(v ...any) error {
	m.AppendedRows = append(m.AppendedRows, v)
	return nil
}

func (m *MockBatch) Send() error {
	m.Sent = true
	return nil
}
