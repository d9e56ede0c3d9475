package document

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Field names shared by the host exporter and the index.
const (
	FieldID          = "id"
	FieldItemID      = "itemid"
	FieldAreaID      = "areaid"
	FieldOwnerUserID = "owneruserid"
	FieldContextID   = "contextid"
	FieldCourseID    = "courseid"
	FieldTitle       = "title"
	FieldContent     = "content"
	FieldModified    = "modified"
)

// RenderFields are the fields copied into a search result by default.
var RenderFields = []string{
	FieldID, FieldItemID, FieldAreaID, FieldOwnerUserID, FieldContextID,
	FieldCourseID, FieldTitle, FieldContent, FieldModified,
}

// Document is a flat field map as produced by the host exporter.
// The adapter only reads back the identifiers it needs for access checks.
type Document map[string]any

// ID returns the unique document id. Falls back to the item id when the
// exporter did not set one.
func (d Document) ID() string {
	if v, ok := d[FieldID]; ok {
		if s := stringify(v); s != "" {
			return s
		}
	}
	if v, ok := d[FieldItemID]; ok {
		return stringify(v)
	}
	return ""
}

// AreaID returns the search area identifier.
func (d Document) AreaID() string {
	return stringify(d[FieldAreaID])
}

// ItemID returns the host item identifier.
func (d Document) ItemID() (int64, error) {
	v, ok := d[FieldItemID]
	if !ok {
		return 0, fmt.Errorf("missing %s", FieldItemID)
	}
	return toInt64(v)
}

// Title returns the title field as text.
func (d Document) Title() string { return stringify(d[FieldTitle]) }

// Pick returns a new Document holding only the given fields that are present.
func (d Document) Pick(fields []string) Document {
	out := make(Document, len(fields))
	for _, f := range fields {
		if v, ok := d[f]; ok {
			out[f] = v
		}
	}
	return out
}

// Validate checks the fields required to index and later re-check the document.
func (d Document) Validate() error {
	if d.AreaID() == "" {
		return fmt.Errorf("%s is required", FieldAreaID)
	}
	if _, err := d.ItemID(); err != nil {
		return err
	}
	return nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}

func toInt64(v any) (int64, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int64:
		return t, nil
	case float64:
		if t != float64(int64(t)) {
			return 0, fmt.Errorf("%s is not an integer: %v", FieldItemID, t)
		}
		return int64(t), nil
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, fmt.Errorf("parse %s: %w", FieldItemID, err)
		}
		return n, nil
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse %s: %w", FieldItemID, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported %s type %T", FieldItemID, v)
	}
}
