package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// Character contains information for a character appearing in a comic.
type Character struct {
	CharacterID   int64
	Name          string
	FullName      string
	ParentID      *int64
	ParentName    *string
	PublisherName *string
	TypeID        int64
	UniverseID    *int64
	UniverseName  *string
	IsEnabled     bool
	DateAdded     time.Time
	DateModified  time.Time
}

// Creator contains information for a creator credited on a comic. Role and
// RoleID are the upstream's comma-separated parallel lists; Roles derives a
// typed view.
type Creator struct {
	CreatorID int64
	Name      string
	Role      string
	RoleID    string
}

// Roles splits the parallel role_id/role lists into a mapping from role id
// to title-cased role name. The lists must be the same length and
// order-aligned; a mismatch is an error.
func (c Creator) Roles() (map[int64]string, error) {
	ids := strings.Split(c.RoleID, ",")
	names := strings.Split(c.Role, ",")
	if len(ids) != len(names) {
		return nil, fmt.Errorf("role_id has %d entries but role has %d", len(ids), len(names))
	}

	roles := make(map[int64]string, len(ids))
	for i, rawID := range ids {
		id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("role_id entry %d: cannot interpret %q as an integer", i, rawID)
		}
		roles[id] = titleCase(strings.TrimSpace(names[i]))
	}
	return roles, nil
}

// KeyEvent contains information for a key event taking place in a comic.
type KeyEvent struct {
	EventID      int64
	CharacterID  int64
	Name         string
	Note         *string
	ParentName   *string
	Type         int64
	TypeID       int64
	UniverseName *string
}

// Variant contains information for a variant printing of a comic.
type Variant struct {
	VariantID    int64
	Title        string
	Price        *decimal.Decimal
	ReleaseDate  time.Time
	DateModified time.Time
}

// Comic contains the full information for one issue. The upstream response
// nests most scalar fields under a "details" sub-object; AssembleComic
// flattens it into the top level, so Title, Price and the rest live directly
// on the record.
type Comic struct {
	ComicID      int64
	Series       Series
	Characters   []Character
	Creators     []Creator
	KeyEvents    []KeyEvent
	Variants     []Variant
	Covers       []Cover
	CollectedIn  []SearchResult
	Collects     []SearchResult
	Title        string
	Description  *string
	Format       string
	IsEnabled    bool
	IsNSFW       bool
	IsVariant    bool
	ISBN         *int64
	PageCount    int64
	ParentID     *int64
	ParentTitle  *string
	Price        *decimal.Decimal
	ReleaseDate  time.Time
	SKU          string
	UPC          *int64
	DateAdded    time.Time
	DateModified time.Time
}

// AssembleComic builds a Comic from a raw API document: details flattened to
// the top level, the keyed "keys" map converted into a list, and every
// nested collection assembled.
func AssembleComic(raw map[string]interface{}) (*Comic, error) {
	details, ok := raw["details"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid document: details: required sub-object missing")
	}

	flattened := make(map[string]interface{}, len(raw)+len(details))
	for key, value := range raw {
		flattened[key] = value
	}
	for key, value := range details {
		flattened[key] = value
	}

	doc := newDocument(flattened)
	comic := &Comic{
		ComicID:      doc.requireInt64("id", "comic_id"),
		Title:        doc.requireString("title"),
		Description:  doc.optString("description"),
		Format:       doc.requireString("format"),
		IsEnabled:    doc.requireBool("enabled", "is_enabled"),
		IsNSFW:       doc.requireBool("nsfw", "is_nsfw"),
		IsVariant:    doc.requireBool("variant", "is_variant"),
		ISBN:         doc.optInt64("isbn"),
		PageCount:    doc.requireInt64("pages", "page_count"),
		ParentID:     doc.optInt64("parent_id"),
		ParentTitle:  doc.optString("parent_title"),
		Price:        doc.optDecimal("price"),
		ReleaseDate:  doc.requireDate("date_release"),
		SKU:          doc.requireString("sku"),
		UPC:          doc.optInt64("upc"),
		DateAdded:    doc.requireDateTime("date_added"),
		DateModified: doc.requireDateTime("date_modified"),
	}

	seriesDoc, ok := flattened["series"].(map[string]interface{})
	if !ok {
		doc.fail("series", "required sub-object missing")
	} else {
		series, err := AssembleSeries(seriesDoc)
		if err != nil {
			doc.fail("series", err.Error())
		} else {
			comic.Series = *series
		}
	}

	for i, sub := range doc.subDocuments("characters") {
		character, err := assembleCharacter(sub)
		if err != nil {
			doc.fail(fmt.Sprintf("characters[%d]", i), err.Error())
			continue
		}
		comic.Characters = append(comic.Characters, *character)
	}

	for i, sub := range doc.subDocuments("creators") {
		creator, err := assembleCreator(sub)
		if err != nil {
			doc.fail(fmt.Sprintf("creators[%d]", i), err.Error())
			continue
		}
		comic.Creators = append(comic.Creators, *creator)
	}

	for i, sub := range doc.subDocuments("keys") {
		event, err := assembleKeyEvent(sub)
		if err != nil {
			doc.fail(fmt.Sprintf("keys[%d]", i), err.Error())
			continue
		}
		comic.KeyEvents = append(comic.KeyEvents, *event)
	}

	for i, sub := range doc.subDocuments("variants") {
		variant, err := assembleVariant(sub)
		if err != nil {
			doc.fail(fmt.Sprintf("variants[%d]", i), err.Error())
			continue
		}
		comic.Variants = append(comic.Variants, *variant)
	}

	for i, sub := range doc.subDocuments("covers") {
		cover, err := AssembleCover(sub)
		if err != nil {
			doc.fail(fmt.Sprintf("covers[%d]", i), err.Error())
			continue
		}
		comic.Covers = append(comic.Covers, *cover)
	}

	for i, sub := range doc.subDocuments("collected_in") {
		result, err := AssembleSearchResult(sub)
		if err != nil {
			doc.fail(fmt.Sprintf("collected_in[%d]", i), err.Error())
			continue
		}
		comic.CollectedIn = append(comic.CollectedIn, *result)
	}

	for i, sub := range doc.subDocuments("collects") {
		result, err := AssembleSearchResult(sub)
		if err != nil {
			doc.fail(fmt.Sprintf("collects[%d]", i), err.Error())
			continue
		}
		comic.Collects = append(comic.Collects, *result)
	}

	if err := doc.err(); err != nil {
		return nil, err
	}
	return comic, nil
}

func assembleCharacter(raw map[string]interface{}) (*Character, error) {
	doc := newDocument(raw)
	character := &Character{
		CharacterID:   doc.requireInt64("id", "character_id"),
		Name:          doc.requireString("name"),
		FullName:      doc.requireString("full_name"),
		ParentID:      doc.optInt64("parent_id"),
		ParentName:    doc.optString("parent_name"),
		PublisherName: doc.optString("publisher_name"),
		TypeID:        doc.requireInt64("type_id"),
		UniverseID:    doc.optInt64("universe_id"),
		UniverseName:  doc.optString("universe_name"),
		IsEnabled:     doc.requireBool("enabled", "is_enabled"),
		DateAdded:     doc.requireDateTime("date_added"),
		DateModified:  doc.requireDateTime("date_modified"),
	}

	if err := doc.err(); err != nil {
		return nil, err
	}
	return character, nil
}

func assembleCreator(raw map[string]interface{}) (*Creator, error) {
	doc := newDocument(raw)
	creator := &Creator{
		CreatorID: doc.requireInt64("id", "creator_id"),
		Name:      doc.requireString("name"),
		Role:      doc.requireString("role"),
		RoleID:    doc.requireString("role_id"),
	}

	if err := doc.err(); err != nil {
		return nil, err
	}
	return creator, nil
}

func assembleKeyEvent(raw map[string]interface{}) (*KeyEvent, error) {
	doc := newDocument(raw)
	event := &KeyEvent{
		EventID:      doc.requireInt64("id", "event_id"),
		CharacterID:  doc.requireInt64("character_id"),
		Name:         doc.requireString("name"),
		Note:         doc.optString("note"),
		ParentName:   doc.optString("parent_name"),
		Type:         doc.requireInt64("type"),
		TypeID:       doc.requireInt64("type_id"),
		UniverseName: doc.optString("universe_name"),
	}

	if err := doc.err(); err != nil {
		return nil, err
	}
	return event, nil
}

func assembleVariant(raw map[string]interface{}) (*Variant, error) {
	doc := newDocument(raw)
	variant := &Variant{
		VariantID:    doc.requireInt64("id", "variant_id"),
		Title:        doc.requireString("title"),
		Price:        doc.optDecimal("price"),
		ReleaseDate:  doc.requireDate("date_release"),
		DateModified: doc.requireDateTime("date_modified"),
	}

	if err := doc.err(); err != nil {
		return nil, err
	}
	return variant, nil
}

// titleCase capitalizes the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
