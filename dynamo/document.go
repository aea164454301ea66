package dynamo

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/lattice/query"
)

// Document is a DynamoDB item returned by a Source.
type Document struct {
	id   string
	data map[string]any
	raw  map[string]types.AttributeValue
}

var _ query.Document = (*Document)(nil)

// ID implements query.Document.
func (d *Document) ID() string { return d.id }

// Data implements query.Document. The returned map is shared; callers must
// not modify it.
func (d *Document) Data() map[string]any { return d.data }

// Raw returns the undecoded item.
func (d *Document) Raw() map[string]types.AttributeValue { return d.raw }

// Key returns the named key attributes of the item.
func (d *Document) Key(attrs []string) (map[string]types.AttributeValue, error) {
	key := make(map[string]types.AttributeValue, len(attrs))
	for _, attr := range attrs {
		v, ok := d.raw[attr]
		if !ok {
			return nil, fmt.Errorf("%w: missing %q", ErrInvalidCursor, attr)
		}
		key[attr] = v
	}
	return key, nil
}

// Timestamp is a time attribute decoded from an RFC 3339 string or an
// epoch-seconds number. It implements query.Temporal.
type Timestamp struct {
	t   time.Time
	raw string
}

var _ query.Temporal = Timestamp{}

// ToTime implements query.Temporal.
func (ts Timestamp) ToTime() time.Time { return ts.t }

// String returns the attribute value as stored.
func (ts Timestamp) String() string { return ts.raw }

// parseTimestamp decodes S and N attributes into a Timestamp.
// Any other type or an unparsable value reports false.
func parseTimestamp(av types.AttributeValue) (Timestamp, bool) {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		t, err := time.Parse(time.RFC3339Nano, v.Value)
		if err != nil {
			return Timestamp{}, false
		}
		return Timestamp{t: t, raw: v.Value}, true
	case *types.AttributeValueMemberN:
		secs, err := strconv.ParseInt(v.Value, 10, 64)
		if err != nil {
			return Timestamp{}, false
		}
		return Timestamp{t: time.Unix(secs, 0).UTC(), raw: v.Value}, true
	}
	return Timestamp{}, false
}

// Decode converts a raw item into a Document using cfg's ID and timestamp
// attributes. Source uses it for every returned item; it is exported for
// items obtained elsewhere, such as stream images.
func Decode(raw map[string]types.AttributeValue, cfg Config) (*Document, error) {
	cfg.validate()
	return decodeItem(raw, cfg)
}

// decodeItem converts a raw item into a Document.
func decodeItem(raw map[string]types.AttributeValue, cfg Config) (*Document, error) {
	id, err := itemID(raw, cfg.IDAttribute)
	if err != nil {
		return nil, err
	}
	data, err := decodeMap(raw, cfg.TimestampAttributes)
	if err != nil {
		return nil, fmt.Errorf("decode item %s: %w", id, err)
	}
	return &Document{id: id, data: data, raw: raw}, nil
}

// itemID extracts the ID attribute as a string.
func itemID(raw map[string]types.AttributeValue, attr string) (string, error) {
	switch v := raw[attr].(type) {
	case *types.AttributeValueMemberS:
		if v.Value != "" {
			return v.Value, nil
		}
	case *types.AttributeValueMemberN:
		return v.Value, nil
	}
	return "", fmt.Errorf("%w: %q", ErrMissingID, attr)
}

// decodeMap unmarshals m, wrapping timestamp attributes and recursing into
// nested maps. Lists are unmarshalled as-is.
func decodeMap(m map[string]types.AttributeValue, timestampAttrs []string) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, av := range m {
		if slices.Contains(timestampAttrs, k) {
			if ts, ok := parseTimestamp(av); ok {
				out[k] = ts
				continue
			}
		}
		if nested, ok := av.(*types.AttributeValueMemberM); ok {
			v, err := decodeMap(nested.Value, timestampAttrs)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = v
			continue
		}
		var v any
		if err := attributevalue.Unmarshal(av, &v); err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}
