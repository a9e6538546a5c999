package schema

import "time"

// Series contains information for a comic series. The upstream may wrap the
// payload in a "details" key; AssembleSeries unwraps it.
type Series struct {
	SeriesID      int64
	Title         string
	Volume        *int64
	YearBegin     int64
	YearEnd       *int64
	PublisherID   int64
	PublisherName string
	Description   *string
	IsEnabled     bool
	DateAdded     time.Time
	DateModified  time.Time
}

// AssembleSeries builds a Series from a raw API document.
func AssembleSeries(raw map[string]interface{}) (*Series, error) {
	if details, ok := raw["details"].(map[string]interface{}); ok {
		raw = details
	}

	doc := newDocument(raw)
	series := &Series{
		SeriesID:      doc.requireInt64("id", "series_id"),
		Title:         doc.requireString("title"),
		Volume:        doc.optInt64("volume"),
		YearBegin:     doc.requireInt64("year_begin"),
		YearEnd:       doc.optInt64("year_end"),
		PublisherID:   doc.requireInt64("publisher_id"),
		PublisherName: doc.requireString("publisher_name"),
		Description:   doc.optString("description"),
		IsEnabled:     doc.requireBool("enabled", "is_enabled"),
		DateAdded:     doc.requireDateTime("date_added"),
		DateModified:  doc.requireDateTime("date_modified"),
	}

	if err := doc.err(); err != nil {
		return nil, err
	}
	return series, nil
}
