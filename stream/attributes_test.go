package stream

import (
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertStreamKey(t *testing.T) {
	streamKey := map[string]events.DynamoDBAttributeValue{
		"id": events.NewStringAttribute("test-id"),
	}

	pk := ConvertStreamKey(streamKey)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "test-id"}, pk["id"])
}

func TestConvertStreamKey_CompositeKey(t *testing.T) {
	streamKey := map[string]events.DynamoDBAttributeValue{
		"pk":      events.NewStringAttribute("customer#123"),
		"version": events.NewNumberAttribute("42"),
		"blob":    events.NewBinaryAttribute([]byte{0x01, 0x02}),
	}

	pk := ConvertStreamKey(streamKey)
	assert.Equal(t, map[string]types.AttributeValue{
		"pk":      &types.AttributeValueMemberS{Value: "customer#123"},
		"version": &types.AttributeValueMemberN{Value: "42"},
		"blob":    &types.AttributeValueMemberB{Value: []byte{0x01, 0x02}},
	}, pk)
}

func TestConvertStreamKey_Nil(t *testing.T) {
	pk := ConvertStreamKey(nil)
	assert.NotNil(t, pk)
	assert.Empty(t, pk)
}

func TestConvertAttribute_Scalars(t *testing.T) {
	tests := []struct {
		name     string
		value    events.DynamoDBAttributeValue
		expected types.AttributeValue
	}{
		{"string", events.NewStringAttribute("s"), &types.AttributeValueMemberS{Value: "s"}},
		{"number", events.NewNumberAttribute("-1.5"), &types.AttributeValueMemberN{Value: "-1.5"}},
		{"bool", events.NewBooleanAttribute(true), &types.AttributeValueMemberBOOL{Value: true}},
		{"null", events.NewNullAttribute(), &types.AttributeValueMemberNULL{Value: true}},
		{"string set", events.NewStringSetAttribute([]string{"a", "b"}), &types.AttributeValueMemberSS{Value: []string{"a", "b"}}},
		{"number set", events.NewNumberSetAttribute([]string{"1", "2"}), &types.AttributeValueMemberNS{Value: []string{"1", "2"}}},
		{"binary set", events.NewBinarySetAttribute([][]byte{{0x01}}), &types.AttributeValueMemberBS{Value: [][]byte{{0x01}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ConvertAttribute(tt.value))
		})
	}
}

func TestConvertImage_Nested(t *testing.T) {
	image := map[string]events.DynamoDBAttributeValue{
		"meta": events.NewMapAttribute(map[string]events.DynamoDBAttributeValue{
			"tags": events.NewListAttribute([]events.DynamoDBAttributeValue{
				events.NewStringAttribute("x"),
				events.NewNumberAttribute("2"),
			}),
		}),
	}

	raw := ConvertImage(image)

	meta, ok := raw["meta"].(*types.AttributeValueMemberM)
	require.True(t, ok, "expected meta to be a map, got %T", raw["meta"])
	assert.Equal(t, &types.AttributeValueMemberL{Value: []types.AttributeValue{
		&types.AttributeValueMemberS{Value: "x"},
		&types.AttributeValueMemberN{Value: "2"},
	}}, meta.Value["tags"])
}
