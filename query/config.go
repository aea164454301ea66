package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config holds paging and batching settings for a Client.
type Config struct {
	// PageSize is the number of records FetchPage requests per page.
	// Default: 10
	PageSize int `validate:"gte=1"`

	// ChunkSize is the maximum number of values per WhereIn query issued by
	// QueryIn. It must not exceed the backend's per-query limit
	// (100 for the DynamoDB IN comparator).
	// Default: 10
	ChunkSize int `validate:"gte=1"`

	// MaxConcurrency is the number of chunk queries QueryIn keeps in flight.
	// Results are always returned in chunk order.
	// Default: 1 (sequential)
	MaxConcurrency int `validate:"gte=1"`
}

// DefaultConfig returns the defaults: pages and chunks of 10, sequential chunk dispatch.
func DefaultConfig() Config {
	return Config{
		PageSize:       10,
		ChunkSize:      10,
		MaxConcurrency: 1,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports every out-of-range field as a single ErrInvalidArgument.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s must be >= %s, got %v", fe.Field(), fe.Param(), fe.Value()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidArgument, strings.Join(msgs, "; "))
}
