package query

import (
	"context"
	"time"
)

// Record is one retrieved document. It always carries an "id" key holding
// the document's identifier.
type Record map[string]any

// ID returns the record identifier.
func (r Record) ID() string {
	id, _ := r[IDField].(string)
	return id
}

// IDField is the key under which a Record stores its document identifier.
const IDField = "id"

// Document is a single document handle returned by a query.
type Document interface {
	// ID returns the document identifier assigned by the backend.
	ID() string

	// Data returns the document's fields.
	Data() map[string]any
}

// ResultSet is the ordered collection of documents returned by executing a query.
type ResultSet interface {
	// Empty reports whether the query matched no documents.
	Empty() bool

	// Documents returns the matched documents in backend order.
	Documents() []Document
}

// Source is a query that can be narrowed, bounded and executed.
// Implementations must be immutable: every builder method returns a new Source.
type Source interface {
	// WhereIn restricts the query to documents whose field is one of values.
	WhereIn(field string, values []any) Source

	// Limit bounds the query to at most n documents.
	Limit(n int) Source

	// StartAfter resumes the query after the given cursor document.
	StartAfter(cursor Document) Source

	// Execute runs the query.
	Execute(ctx context.Context) (ResultSet, error)
}

// Temporal is implemented by backend timestamp values that can be
// converted to a time.Time.
type Temporal interface {
	ToTime() time.Time
}

// Page is one page of records plus the cursor to resume after it.
type Page struct {
	Records []Record

	// Cursor is the last document of the page. Nil when the page is empty
	// or the fetch failed.
	Cursor Document
}

// Documents is a ResultSet backed by a slice.
type Documents []Document

// Empty implements ResultSet.
func (d Documents) Empty() bool { return len(d) == 0 }

// Documents implements ResultSet.
func (d Documents) Documents() []Document { return d }
