package dynamo

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/lattice/query"
)

// MaxInValues is the maximum number of operands DynamoDB accepts for an IN comparator.
const MaxInValues = 100

// API is the subset of the DynamoDB client used by Source.
// *dynamodb.Client satisfies it.
type API interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Input defines the base query a Source narrows and pages through.
type Input struct {
	// TableName is the DynamoDB table to query.
	TableName string

	// IndexName is the optional GSI/LSI to query.
	IndexName string

	// KeyConditionExpression is the DynamoDB key condition.
	// If empty, the Source scans the table or index.
	KeyConditionExpression string

	// FilterExpression is an optional filter (membership and TTL filters are merged in).
	FilterExpression string

	// ExpressionAttributeNames maps expression attribute name placeholders.
	ExpressionAttributeNames map[string]string

	// ExpressionAttributeValues maps expression attribute value placeholders.
	ExpressionAttributeValues map[string]types.AttributeValue

	// ScanIndexForward determines sort order (true = ascending, false = descending).
	// Ignored for scans.
	ScanIndexForward *bool

	// ConsistentRead requests strongly consistent reads.
	ConsistentRead bool
}

// membership is one WhereIn filter.
type membership struct {
	field  string
	values []types.AttributeValue
}

// Source is an immutable DynamoDB query implementing query.Source.
type Source struct {
	client   API
	input    Input
	config   Config
	filters  []membership
	limit    int
	startKey map[string]types.AttributeValue
	err      error
}

var _ query.Source = (*Source)(nil)

// New creates a Source for the given base input.
func New(client API, input Input, config Config) *Source {
	config.validate()
	return &Source{
		client: client,
		input:  input,
		config: config,
	}
}

// clone returns a copy that can be modified without affecting s.
func (s *Source) clone() *Source {
	c := *s
	c.filters = append([]membership(nil), s.filters...)
	return &c
}

// WhereIn implements query.Source. Multiple calls are combined with AND.
func (s *Source) WhereIn(field string, values []any) query.Source {
	c := s.clone()
	if c.err != nil {
		return c
	}
	if len(values) > MaxInValues {
		c.err = fmt.Errorf("%w: %d values for %q, max %d", ErrTooManyValues, len(values), field, MaxInValues)
		return c
	}

	avs := make([]types.AttributeValue, 0, len(values))
	for _, v := range values {
		av, err := attributevalue.Marshal(v)
		if err != nil {
			c.err = fmt.Errorf("marshal %q value: %w", field, err)
			return c
		}
		avs = append(avs, av)
	}
	c.filters = append(c.filters, membership{field: field, values: avs})
	return c
}

// Limit implements query.Source. Values below 1 remove the limit.
func (s *Source) Limit(n int) query.Source {
	c := s.clone()
	c.limit = n
	return c
}

// StartAfter implements query.Source. The cursor should be a *Document
// returned by this package; other documents are accepted when the ID
// attribute is the only key attribute.
func (s *Source) StartAfter(cursor query.Document) query.Source {
	c := s.clone()
	if c.err != nil || cursor == nil {
		return c
	}

	if doc, ok := cursor.(*Document); ok {
		key, err := doc.Key(c.config.KeyAttributes)
		if err != nil {
			c.err = err
			return c
		}
		c.startKey = key
		return c
	}

	if len(c.config.KeyAttributes) == 1 && c.config.KeyAttributes[0] == c.config.IDAttribute && cursor.ID() != "" {
		c.startKey = map[string]types.AttributeValue{
			c.config.IDAttribute: &types.AttributeValueMemberS{Value: cursor.ID()},
		}
		return c
	}

	c.err = fmt.Errorf("%w: document %q", ErrInvalidCursor, cursor.ID())
	return c
}

// Execute implements query.Source. It follows LastEvaluatedKey until the
// limit is reached or the table is exhausted, since DynamoDB applies Limit
// before filters and can return short pages.
func (s *Source) Execute(ctx context.Context) (query.ResultSet, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, f := range s.filters {
		if len(f.values) == 0 {
			// IN with no operands matches nothing and is rejected by DynamoDB.
			return query.Documents{}, nil
		}
	}

	filterExpr, exprNames, exprValues := s.expression()

	docs := query.Documents{}
	startKey := s.startKey
	for {
		var limit *int32
		if s.limit > 0 {
			limit = aws.Int32(int32(min(s.limit-len(docs), math.MaxInt32)))
		}

		items, lastKey, err := s.fetch(ctx, filterExpr, exprNames, exprValues, startKey, limit)
		if err != nil {
			return nil, err
		}

		for _, raw := range items {
			doc, err := decodeItem(raw, s.config)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
			if s.limit > 0 && len(docs) == s.limit {
				return docs, nil
			}
		}

		if len(lastKey) == 0 {
			return docs, nil
		}
		startKey = lastKey
	}
}

// fetch issues one Query or Scan request.
func (s *Source) fetch(ctx context.Context, filterExpr string, names map[string]string, values map[string]types.AttributeValue,
	startKey map[string]types.AttributeValue, limit *int32) ([]map[string]types.AttributeValue, map[string]types.AttributeValue, error) {
	var filter *string
	if filterExpr != "" {
		filter = aws.String(filterExpr)
	}
	var index *string
	if s.input.IndexName != "" {
		index = aws.String(s.input.IndexName)
	}

	if s.input.KeyConditionExpression == "" {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(s.input.TableName),
			IndexName:                 index,
			FilterExpression:          filter,
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
			ExclusiveStartKey:         startKey,
			Limit:                     limit,
			ConsistentRead:            aws.Bool(s.input.ConsistentRead),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("scan %s: %w", s.input.TableName, err)
		}
		return out.Items, out.LastEvaluatedKey, nil
	}

	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.input.TableName),
		IndexName:                 index,
		KeyConditionExpression:    aws.String(s.input.KeyConditionExpression),
		FilterExpression:          filter,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ExclusiveStartKey:         startKey,
		Limit:                     limit,
		ScanIndexForward:          s.input.ScanIndexForward,
		ConsistentRead:            aws.Bool(s.input.ConsistentRead),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("query %s: %w", s.input.TableName, err)
	}
	return out.Items, out.LastEvaluatedKey, nil
}

// expression merges the base filter, membership filters and the TTL filter.
func (s *Source) expression() (string, map[string]string, map[string]types.AttributeValue) {
	var clauses []string
	if s.input.FilterExpression != "" {
		clauses = append(clauses, "("+s.input.FilterExpression+")")
	}

	inNames := map[string]string{}
	inValues := map[string]types.AttributeValue{}
	for i, f := range s.filters {
		nameKey := fmt.Sprintf("#in%d", i)
		inNames[nameKey] = f.field

		placeholders := make([]string, len(f.values))
		for j, v := range f.values {
			valueKey := fmt.Sprintf(":in%d_%d", i, j)
			inValues[valueKey] = v
			placeholders[j] = valueKey
		}
		clauses = append(clauses, fmt.Sprintf("%s IN (%s)", nameKey, strings.Join(placeholders, ", ")))
	}

	var ttlNames map[string]string
	var ttlValues map[string]types.AttributeValue
	if !s.config.IncludeDeleted {
		var clause string
		clause, ttlNames, ttlValues = liveClause(s.config.TTLAttribute, time.Now())
		clauses = append(clauses, "("+clause+")")
	}

	names := merged(s.input.ExpressionAttributeNames, inNames, ttlNames)
	values := merged(s.input.ExpressionAttributeValues, inValues, ttlValues)
	return strings.Join(clauses, " AND "), names, values
}
