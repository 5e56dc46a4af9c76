package model

import "github.com/oklog/ulid/v2"

// NewID allocates a ULID for a new entity. ULIDs sort by creation time,
// which keeps index pages warm on append-heavy tables.
func NewID() string {
	return ulid.Make().String()
}
