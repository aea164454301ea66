package query_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jacentio/lattice/query"
)

// --- Test Doubles ---

type fakeDoc struct {
	id   string
	data map[string]any
}

func (d fakeDoc) ID() string           { return d.id }
func (d fakeDoc) Data() map[string]any { return d.data }

// fakeTimestamp mimics a backend timestamp with seconds precision.
type fakeTimestamp struct {
	seconds int64
}

func (t fakeTimestamp) ToTime() time.Time { return time.Unix(t.seconds, 0).UTC() }

// ptrTimestamp implements Temporal on a pointer receiver.
type ptrTimestamp struct {
	seconds int64
}

func (t *ptrTimestamp) ToTime() time.Time { return time.Unix(t.seconds, 0).UTC() }

// call captures one Execute invocation.
type call struct {
	field  string
	values []any
	limit  int
	after  query.Document
}

// fakeBackend records executions and answers them with respond.
type fakeBackend struct {
	mu      sync.Mutex
	calls   []call
	respond func(c call) (query.ResultSet, error)
}

func (b *fakeBackend) source() query.Source {
	return fakeSource{backend: b}
}

func (b *fakeBackend) Calls() []call {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]call, len(b.calls))
	copy(out, b.calls)
	return out
}

type fakeSource struct {
	backend *fakeBackend
	c       call
}

func (s fakeSource) WhereIn(field string, values []any) query.Source {
	s.c.field = field
	s.c.values = values
	return s
}

func (s fakeSource) Limit(n int) query.Source {
	s.c.limit = n
	return s
}

func (s fakeSource) StartAfter(cursor query.Document) query.Source {
	s.c.after = cursor
	return s
}

func (s fakeSource) Execute(ctx context.Context) (query.ResultSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.backend.mu.Lock()
	s.backend.calls = append(s.backend.calls, s.c)
	s.backend.mu.Unlock()
	if s.backend.respond == nil {
		return query.Documents{}, nil
	}
	return s.backend.respond(s.c)
}

// echoMembers answers membership queries with one document per requested value.
func echoMembers(c call) (query.ResultSet, error) {
	docs := make(query.Documents, 0, len(c.values))
	for _, v := range c.values {
		docs = append(docs, fakeDoc{
			id:   v.(string),
			data: map[string]any{"tag": v, "at": fakeTimestamp{seconds: 100}},
		})
	}
	return docs, nil
}

// numbered returns n distinct string values in order: "aa", "ab", ...
func numbered(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = string(rune('a'+i/26)) + string(rune('a'+i%26))
	}
	return out
}

// newCapturingLogger returns a JSON slog.Logger writing into buf.
func newCapturingLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
