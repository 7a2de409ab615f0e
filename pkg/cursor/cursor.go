// Package cursor implements the opaque continuation tokens used by keyset
// pagination. A cursor is a URL-safe base64 encoding of a small JSON object
// carrying exactly the sort-relevant fields of the last returned row.
//
// Cursors are resume points, not an authorization boundary: they are
// unsigned, and a malformed or undecodable value is treated as "no cursor"
// (start of the sequence), never as an error.
package cursor

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimeID is the cursor payload for createdAt/borrowedAt ordered listings.
type TimeID struct {
	TS time.Time `json:"ts"`
	ID uuid.UUID `json:"id"`
}

// TitleID is the cursor payload for title-ordered listings.
// Title is stored pre-lowercased to match the lower(title) sort key.
type TitleID struct {
	Title string    `json:"title"`
	ID    uuid.UUID `json:"id"`
}

// EncodeTimeID encodes a TimeID cursor.
func EncodeTimeID(ts time.Time, id uuid.UUID) string {
	return encode(TimeID{TS: ts, ID: id})
}

// EncodeTitleID encodes a TitleID cursor. The title is lowercased here so
// callers cannot produce a cursor that disagrees with the sort key.
func EncodeTitleID(title string, id uuid.UUID) string {
	return encode(TitleID{Title: strings.ToLower(title), ID: id})
}

// DecodeTimeID decodes a TimeID cursor. ok is false for malformed input.
func DecodeTimeID(s string) (TimeID, bool) {
	var c TimeID
	if !decode(s, &c) || c.TS.IsZero() || c.ID == uuid.Nil {
		return TimeID{}, false
	}
	return c, true
}

// DecodeTitleID decodes a TitleID cursor. ok is false for malformed input.
func DecodeTitleID(s string) (TitleID, bool) {
	var c TitleID
	if !decode(s, &c) || c.Title == "" || c.ID == uuid.Nil {
		return TitleID{}, false
	}
	return c, true
}

func encode(v any) string {
	payload, err := json.Marshal(v)
	if err != nil {
		// Both payload types marshal unconditionally.
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(payload)
}

// decode accepts both padded and unpadded base64url input.
func decode(s string, v any) bool {
	if s == "" {
		return false
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}
