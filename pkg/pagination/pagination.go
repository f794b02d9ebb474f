package pagination

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any page can request.
	MaxLimit = 200
)

// ErrStaleCursor is returned when a cursor was issued for another snapshot version.
var ErrStaleCursor = errors.New("cursor belongs to a previous snapshot")

// Params holds pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor pins a position inside one snapshot version. Derived views are
// recomputed per snapshot, so an offset is only meaningful within its version.
type Cursor struct {
	SnapshotVersion uint64
	Offset          int
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// EncodeCursor builds a base64 cursor string from the provided values.
func EncodeCursor(cursor Cursor) string {
	payload := fmt.Sprintf("%d|%d", cursor.SnapshotVersion, cursor.Offset)
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

// ParseCursor decodes the cursor string back into its components.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid cursor format")
	}

	version, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor version: %w", err)
	}
	offset, err := strconv.Atoi(parts[1])
	if err != nil || offset < 0 {
		return nil, fmt.Errorf("invalid cursor offset")
	}
	return &Cursor{SnapshotVersion: version, Offset: offset}, nil
}

// Page slices items for the given params within snapshot version. It returns
// the page and the cursor of the next page, empty on the last page.
func Page[T any](items []T, params Params, version uint64) ([]T, string, error) {
	limit := NormalizeLimit(params.Limit)
	cursor, err := ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	offset := 0
	if cursor != nil {
		if cursor.SnapshotVersion != version {
			return nil, "", ErrStaleCursor
		}
		offset = cursor.Offset
	}
	if offset >= len(items) {
		return []T{}, "", nil
	}

	end := offset + limit
	if end >= len(items) {
		return items[offset:], "", nil
	}
	next := EncodeCursor(Cursor{SnapshotVersion: version, Offset: end})
	return items[offset:end], next, nil
}
