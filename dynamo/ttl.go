package dynamo

import (
	"maps"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDB removes expired items in the background, often days after their
// TTL passes, so reads must filter them out explicitly.

// IsDeleted reports whether item carries an epoch-seconds value in
// c.TTLAttribute that is not in the future. Items without the attribute, or
// with a non-numeric value, are live.
func (c Config) IsDeleted(item map[string]types.AttributeValue) bool {
	c.validate()
	return expired(item, c.TTLAttribute, time.Now())
}

func expired(item map[string]types.AttributeValue, attr string, now time.Time) bool {
	n, ok := item[attr].(*types.AttributeValueMemberN)
	if !ok {
		return false
	}
	ttl, err := strconv.ParseInt(n.Value, 10, 64)
	return err == nil && ttl <= now.Unix()
}

// liveClause is the filter condition matching items not expired at now.
func liveClause(attr string, now time.Time) (string, map[string]string, map[string]types.AttributeValue) {
	return "attribute_not_exists(#ttl) OR #ttl > :now",
		map[string]string{"#ttl": attr},
		map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)},
		}
}

// merged combines placeholder maps; later maps win on conflicting keys.
// It returns nil when there is nothing to merge, which the SDK expects for
// requests without expression attributes.
func merged[V any](ms ...map[string]V) map[string]V {
	var out map[string]V
	for _, m := range ms {
		if len(m) == 0 {
			continue
		}
		if out == nil {
			out = make(map[string]V, len(m))
		}
		maps.Copy(out, m)
	}
	return out
}
