// Package stream turns DynamoDB Streams events into query records.
package stream

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/lattice/dynamo"
	"github.com/jacentio/lattice/query"
)

// Change is one converted stream record.
type Change struct {
	// EventID is the stream record's event ID.
	EventID string

	// EventName is INSERT, MODIFY or REMOVE.
	EventName string

	// SequenceNumber identifies the record within its shard.
	SequenceNumber string

	// Key is the item's primary key.
	Key map[string]types.AttributeValue

	// Record is the item after the change, or before it for REMOVE events.
	// Dates are normalized.
	Record query.Record

	// Deleted is true for REMOVE events and for items whose TTL has expired.
	Deleted bool
}

// ApplyFunc receives the converted changes of one batch, in stream order.
type ApplyFunc func(ctx context.Context, changes []Change) error

// Handler converts DynamoDB stream batches into Changes.
type Handler struct {
	config dynamo.Config
	apply  ApplyFunc
	logger *slog.Logger
}

// NewHandler creates a new stream handler. config selects the ID and
// timestamp attributes used to decode images.
func NewHandler(config dynamo.Config, apply ApplyFunc, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		config: config,
		apply:  apply,
		logger: logger,
	}
}

// HandleEvent converts every record of the batch and passes the result to
// the ApplyFunc. This function is designed to be used as an AWS Lambda
// handler with ReportBatchItemFailures enabled.
//
// When a record cannot be converted, the records before it are applied and
// the response names the failed record so Lambda retries from there.
// An ApplyFunc error fails the whole batch.
func (h *Handler) HandleEvent(ctx context.Context, event events.DynamoDBEvent) (events.DynamoDBEventResponse, error) {
	var resp events.DynamoDBEventResponse

	changes := make([]Change, 0, len(event.Records))
	for _, record := range event.Records {
		change, err := ConvertRecord(record, h.config)
		if err != nil {
			h.logger.Error("failed to convert record",
				"eventID", record.EventID,
				"sequenceNumber", record.Change.SequenceNumber,
				"error", err,
			)
			resp.BatchItemFailures = []events.DynamoDBBatchItemFailure{
				{ItemIdentifier: record.Change.SequenceNumber},
			}
			break
		}
		changes = append(changes, change)
	}

	if len(changes) > 0 && h.apply != nil {
		if err := h.apply(ctx, changes); err != nil {
			h.logger.Error("failed to apply changes",
				"changeCount", len(changes),
				"error", err,
			)
			return events.DynamoDBEventResponse{}, err // Will retry, eventually DLQ
		}
	}

	h.logger.Info("stream batch processed",
		"records", len(event.Records),
		"applied", len(changes),
		"failed", len(resp.BatchItemFailures),
	)

	return resp, nil
}

// ConvertRecord converts a single stream record using config to decode the image.
func ConvertRecord(record events.DynamoDBEventRecord, config dynamo.Config) (Change, error) {
	image := record.Change.NewImage
	deleted := false
	if record.EventName == "REMOVE" {
		image = record.Change.OldImage
		deleted = true
	}
	// KEYS_ONLY streams carry no images
	if len(image) == 0 {
		image = record.Change.Keys
	}

	raw := ConvertImage(image)
	if config.IsDeleted(raw) {
		deleted = true
	}

	doc, err := dynamo.Decode(raw, config)
	if err != nil {
		return Change{}, fmt.Errorf("decode %s record %s: %w", record.EventName, record.EventID, err)
	}
	converted, err := query.ConvertDocument(doc, true)
	if err != nil {
		return Change{}, fmt.Errorf("convert %s record %s: %w", record.EventName, record.EventID, err)
	}

	return Change{
		EventID:        record.EventID,
		EventName:      record.EventName,
		SequenceNumber: record.Change.SequenceNumber,
		Key:            ConvertStreamKey(record.Change.Keys),
		Record:         converted,
		Deleted:        deleted,
	}, nil
}

// Documents decodes the current image of every non-REMOVE record, so a
// stream batch can be passed to query.ConvertSnapshot like a query result.
func Documents(records []events.DynamoDBEventRecord, config dynamo.Config) (query.Documents, error) {
	docs := make(query.Documents, 0, len(records))
	for _, record := range records {
		if record.EventName == "REMOVE" || len(record.Change.NewImage) == 0 {
			continue
		}
		doc, err := dynamo.Decode(ConvertImage(record.Change.NewImage), config)
		if err != nil {
			return nil, fmt.Errorf("decode record %s: %w", record.EventID, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
