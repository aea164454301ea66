package dynamo

// Config holds item decoding and filtering settings for a Source.
type Config struct {
	// IDAttribute is the attribute holding the document ID.
	// String and number values are accepted.
	// Default: "id"
	IDAttribute string

	// KeyAttributes are the attributes that make up the ExclusiveStartKey
	// when resuming after a cursor. For a GSI query this must include both
	// the table key and the index key attributes.
	// Default: ["id"]
	KeyAttributes []string

	// TimestampAttributes names attributes decoded into Timestamp values,
	// at any map depth. Values inside lists are never wrapped.
	TimestampAttributes []string

	// TTLAttribute holds the item expiry as epoch seconds.
	// Default: "ttl"
	TTLAttribute string

	// IncludeDeleted disables the TTL filter so expired items are returned.
	IncludeDeleted bool
}

// DefaultConfig returns a config for tables keyed by a single "id" attribute
// with "created_at" and "updated_at" timestamps.
func DefaultConfig() Config {
	return Config{
		IDAttribute:         "id",
		KeyAttributes:       []string{"id"},
		TimestampAttributes: []string{"created_at", "updated_at"},
		TTLAttribute:        "ttl",
	}
}

// validate fills in missing defaults.
func (c *Config) validate() {
	if c.IDAttribute == "" {
		c.IDAttribute = "id"
	}
	if len(c.KeyAttributes) == 0 {
		c.KeyAttributes = []string{c.IDAttribute}
	}
	if c.TTLAttribute == "" {
		c.TTLAttribute = "ttl"
	}
}
