package schema

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// sessionKeys are per-user interaction fields the upstream attaches to
// generic comic documents. They are session-specific and not part of the
// typed model.
var sessionKeys = []string{
	"collected",
	"pulled",
	"readlist",
	"wishlist",
	"my_pick",
	"my_rating",
	"my_rating_dec",
	"key_level",
}

// SearchResult is the generic comic summary shape the upstream returns from
// search, collected_in references and cover listings.
type SearchResult struct {
	ComicID       int64
	Title         string
	Description   *string
	Format        string
	IsEnabled     bool
	IsVariant     bool
	ParentID      *int64
	ParentTitle   *string
	Price         *decimal.Decimal
	PublisherID   int64
	PublisherName string
	ReleaseDate   time.Time
	SeriesID      int64
	SeriesName    string
	SeriesVolume  *int64
	YearBegin     int64
	YearEnd       *int64
	CountPulls    *int64
	CoverID       *int64
	DateFOC       *time.Time
	DateCollected *time.Time
	DateModified  time.Time
}

// CoverType classifies variant covers.
type CoverType int64

const (
	CoverTypeReprint        CoverType = 1
	CoverTypeIncentive      CoverType = 2
	CoverTypeEventExclusive CoverType = 4
)

// Cover is a variant cover listing: a generic comic summary plus the type of
// cover used.
type Cover struct {
	SearchResult
	CoverType CoverType
}

// AssembleSearchResult builds a SearchResult from a raw API document,
// discarding the session-specific interaction keys first.
func AssembleSearchResult(raw map[string]interface{}) (*SearchResult, error) {
	doc := newDocument(stripSessionKeys(raw))
	result := assembleSearchResult(doc)

	if err := doc.err(); err != nil {
		return nil, err
	}
	return result, nil
}

// AssembleSearchResults builds the list of results returned by the search
// endpoint. Element failures carry their index.
func AssembleSearchResults(raw []interface{}) ([]SearchResult, error) {
	results := make([]SearchResult, 0, len(raw))
	for i, item := range raw {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("results[%d]: expected an object, got %T", i, item)
		}

		result, err := AssembleSearchResult(obj)
		if err != nil {
			return nil, fmt.Errorf("results[%d]: %w", i, err)
		}
		results = append(results, *result)
	}
	return results, nil
}

// AssembleCover builds a Cover from a raw API document.
func AssembleCover(raw map[string]interface{}) (*Cover, error) {
	doc := newDocument(stripSessionKeys(raw))
	cover := &Cover{
		SearchResult: *assembleSearchResult(doc),
		CoverType:    CoverType(doc.requireInt64("cover_type")),
	}

	if err := doc.err(); err != nil {
		return nil, err
	}
	return cover, nil
}

func assembleSearchResult(doc *document) *SearchResult {
	return &SearchResult{
		ComicID:       doc.requireInt64("id", "comic_id"),
		Title:         doc.requireString("title"),
		Description:   doc.optString("description"),
		Format:        doc.requireString("format"),
		IsEnabled:     doc.requireBool("enabled", "is_enabled"),
		IsVariant:     doc.requireBool("variant", "is_variant"),
		ParentID:      doc.optInt64("parent_id"),
		ParentTitle:   doc.optString("parent_title"),
		Price:         doc.optDecimal("price"),
		PublisherID:   doc.requireInt64("publisher_id"),
		PublisherName: doc.requireString("publisher_name"),
		ReleaseDate:   doc.requireDate("date_release"),
		SeriesID:      doc.requireInt64("series_id"),
		SeriesName:    doc.requireString("series_name"),
		SeriesVolume:  doc.optInt64("series_volume"),
		YearBegin:     doc.requireInt64("series_begin", "year_begin"),
		YearEnd:       doc.optInt64("series_end", "year_end"),
		CountPulls:    doc.optInt64("count_pulls"),
		CoverID:       doc.optInt64("cover"),
		DateFOC:       doc.optDate("date_foc"),
		DateCollected: doc.optDate("date_collected"),
		DateModified:  doc.requireDateTime("date_modified"),
	}
}

// stripSessionKeys removes the interaction keys without mutating the
// caller's map.
func stripSessionKeys(raw map[string]interface{}) map[string]interface{} {
	stripped := make(map[string]interface{}, len(raw))
	for key, value := range raw {
		stripped[key] = value
	}
	for _, key := range sessionKeys {
		delete(stripped, key)
	}
	return stripped
}
