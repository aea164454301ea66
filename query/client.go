package query

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
)

// Client runs paged and batched queries against any Source.
// A Client holds no per-query state and is safe for concurrent use.
type Client struct {
	config Config
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client) error

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(c *Client) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.config = cfg
		return nil
	}
}

// WithLogger sets the logger that receives query failures.
// A nil logger falls back to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// New creates a Client with DefaultConfig and slog.Default(), then applies opts.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Config returns the client's configuration.
func (c *Client) Config() Config {
	return c.config
}

// FetchPage fetches one page of at most Config.PageSize records, resuming
// after last when it is non-nil.
//
// An empty result yields a Page with no Records (never a nil slice) and a
// nil Cursor. When the query
// fails the error is logged once and FetchPage returns an empty Page along
// with an error wrapping ErrQueryExecution. Callers that only look at the
// Page therefore see a failure as end of data.
func (c *Client) FetchPage(ctx context.Context, q Source, last Document) (Page, error) {
	return c.FetchPageSize(ctx, q, last, c.config.PageSize)
}

// FetchPageSize is FetchPage with an explicit page size.
func (c *Client) FetchPageSize(ctx context.Context, q Source, last Document, pageSize int) (Page, error) {
	if pageSize < 1 {
		return Page{}, fmt.Errorf("%w: page size must be >= 1, got %d", ErrInvalidArgument, pageSize)
	}
	if q == nil {
		return Page{}, fmt.Errorf("%w: nil source", ErrInvalidArgument)
	}

	paged := q.Limit(pageSize)
	if last != nil {
		paged = paged.StartAfter(last)
	}

	rs, err := paged.Execute(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to fetch page",
			"pageSize", pageSize,
			"error", err,
		)
		return Page{Records: []Record{}}, fmt.Errorf("%w: %w", ErrQueryExecution, err)
	}
	if rs == nil || rs.Empty() {
		return Page{Records: []Record{}}, nil
	}

	docs := rs.Documents()
	records, err := ConvertSnapshot(rs, true)
	if err != nil {
		return Page{}, err
	}

	return Page{
		Records: records,
		Cursor:  docs[len(docs)-1],
	}, nil
}

// All iterates over every record of q, fetching pages of Config.PageSize
// until a page comes back empty or holds fewer than Config.PageSize records.
// Iteration stops after yielding the first error.
func (c *Client) All(ctx context.Context, q Source) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		var cursor Document
		for {
			page, err := c.FetchPage(ctx, q, cursor)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, record := range page.Records {
				if !yield(record, nil) {
					return
				}
			}
			if page.Cursor == nil || len(page.Records) < c.config.PageSize {
				return
			}
			cursor = page.Cursor
		}
	}
}
