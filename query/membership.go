package query

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jacentio/lattice/internal/chunk"
)

// QueryIn returns every document of q whose field matches one of values.
//
// Backends cap the number of values a single membership query accepts, so
// values are split into chunks of Config.ChunkSize and one WhereIn query is
// issued per chunk. The last chunk may be shorter than ChunkSize and is
// always queried. Records are returned in chunk order, then in the order
// the backend returned them within each chunk. Dates are normalized.
//
// Up to Config.MaxConcurrency chunk queries run at once. The first failing
// chunk cancels the rest and no further chunks are issued; QueryIn logs that
// failure once and returns no records and an error wrapping
// ErrQueryExecution.
func (c *Client) QueryIn(ctx context.Context, q Source, field string, values []any) ([]Record, error) {
	return c.QueryInSize(ctx, q, field, values, c.config.ChunkSize)
}

// QueryInSize is QueryIn with an explicit chunk size.
func (c *Client) QueryInSize(ctx context.Context, q Source, field string, values []any, chunkSize int) ([]Record, error) {
	if chunkSize < 1 {
		return nil, fmt.Errorf("%w: chunk size must be >= 1, got %d", ErrInvalidArgument, chunkSize)
	}
	if q == nil {
		return nil, fmt.Errorf("%w: nil source", ErrInvalidArgument)
	}
	if field == "" {
		return nil, fmt.Errorf("%w: empty field name", ErrInvalidArgument)
	}

	chunks, err := chunk.Split(values, chunkSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if len(chunks) == 0 {
		return []Record{}, nil
	}

	results := make([][]Record, len(chunks))

	// Fast path: sequential dispatch
	if c.config.MaxConcurrency <= 1 || len(chunks) == 1 {
		for i, part := range chunks {
			records, err := queryChunk(ctx, q, field, part, i)
			if err != nil {
				return nil, c.chunkFailed(ctx, field, err)
			}
			results[i] = records
		}
		return flatten(results), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.MaxConcurrency)
	for i, part := range chunks {
		g.Go(func() error {
			// A slot may free up after another chunk already failed.
			if err := gctx.Err(); err != nil {
				return err
			}
			records, err := queryChunk(gctx, q, field, part, i)
			if err != nil {
				return err
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, c.chunkFailed(ctx, field, err)
	}
	return flatten(results), nil
}

// chunkError ties a failure to the chunk that produced it.
type chunkError struct {
	index int
	size  int
	err   error
}

func (e *chunkError) Error() string { return fmt.Sprintf("chunk %d: %v", e.index, e.err) }
func (e *chunkError) Unwrap() error { return e.err }

// queryChunk runs one membership query and converts its result.
func queryChunk(ctx context.Context, q Source, field string, values []any, index int) ([]Record, error) {
	rs, err := q.WhereIn(field, values).Execute(ctx)
	if err != nil {
		return nil, &chunkError{index: index, size: len(values), err: err}
	}
	records, err := ConvertSnapshot(rs, true)
	if err != nil {
		return nil, &chunkError{index: index, size: len(values), err: err}
	}
	return records, nil
}

// chunkFailed logs the error that aborted a QueryIn call and wraps it.
// Only the first failure reaches here, so each call logs at most once.
func (c *Client) chunkFailed(ctx context.Context, field string, err error) error {
	attrs := []any{"field", field}
	var ce *chunkError
	if errors.As(err, &ce) {
		attrs = append(attrs, "chunk", ce.index, "values", ce.size)
	}
	attrs = append(attrs, "error", err)
	c.logger.ErrorContext(ctx, "membership query failed", attrs...)
	return fmt.Errorf("%w: %w", ErrQueryExecution, err)
}

func flatten(results [][]Record) []Record {
	n := 0
	for _, r := range results {
		n += len(r)
	}
	out := make([]Record, 0, n)
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}
