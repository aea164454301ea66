package query

import "fmt"

// ConvertSnapshot turns a result set into records, one per document in
// iteration order. When transformDates is true each document's data is
// passed through NormalizeTimestamps. The document ID is always written to
// the "id" key, replacing any "id" field present in the data.
func ConvertSnapshot(rs ResultSet, transformDates bool) ([]Record, error) {
	if rs == nil || rs.Empty() {
		return []Record{}, nil
	}

	docs := rs.Documents()
	records := make([]Record, 0, len(docs))
	for i, doc := range docs {
		record, err := ConvertDocument(doc, transformDates)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// ConvertDocument converts a single document to a Record.
func ConvertDocument(doc Document, transformDates bool) (Record, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrInvalidArgument)
	}

	data := doc.Data()
	if data == nil {
		data = map[string]any{}
	}

	if transformDates {
		normalized, err := NormalizeTimestamps(data)
		if err != nil {
			return nil, err
		}
		data = normalized
	}

	record := make(Record, len(data)+1)
	for k, v := range data {
		record[k] = v
	}
	record[IDField] = doc.ID()
	return record, nil
}
