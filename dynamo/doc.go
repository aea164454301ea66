// Package dynamo binds the query package to Amazon DynamoDB.
//
// A [Source] wraps a DynamoDB Query (or Scan when no key condition is given)
// and implements [query.Source]:
//
//	src := dynamo.New(client, dynamo.Input{
//	    TableName:              "orders",
//	    KeyConditionExpression: "customer_id = :c",
//	    ExpressionAttributeValues: map[string]types.AttributeValue{
//	        ":c": &types.AttributeValueMemberS{Value: customerID},
//	    },
//	}, dynamo.DefaultConfig())
//
//	page, err := client.FetchPage(ctx, src, nil)
//
// # Membership Filters
//
// WhereIn is rendered as an IN filter expression. DynamoDB accepts at most
// [MaxInValues] operands per IN comparator; set query.Config.ChunkSize to
// at most that value when using QueryIn.
//
// # Deleted Items
//
// Items whose "ttl" attribute is in the past are treated as deleted and
// filtered out, matching DynamoDB TTL semantics before the background
// sweeper removes them. Set Config.IncludeDeleted to disable the filter.
//
// # Timestamps
//
// Attributes named in Config.TimestampAttributes are decoded into
// [Timestamp] values (from RFC 3339 strings or epoch-second numbers), which
// query.NormalizeTimestamps converts to time.Time.
package dynamo
