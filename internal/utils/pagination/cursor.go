package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxLimit caps a single page.
const MaxLimit = 100

var (
	ErrInvalidToken = errors.New("invalid pagination token")
	ErrInvalidLimit = errors.New("limit must be a positive integer")
)

// Cursor is the opaque pagination state we encode/decode.
// AfterSeq is the insertion sequence of the last item already returned.
type Cursor struct {
	AfterSeq uint64 `json:"after_seq"`
}

// Encode converts a Cursor into a Base64 string.
func Encode(c Cursor) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Decode parses a Base64 string into a Cursor.
// Empty token → empty cursor (first page).
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, nil
	}

	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, ErrInvalidToken
	}

	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil {
		return Cursor{}, ErrInvalidToken
	}
	return c, nil
}

// ParseLimit reads a ?limit= value. Empty means "no paging" and returns 0.
// Values above MaxLimit are clamped.
func ParseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, ErrInvalidLimit
	}
	return min(n, MaxLimit), nil
}

// Page returns the slice of items that follows token.
//
// Behavior:
//   - items must be sorted by seq ascending.
//   - limit <= 0 returns everything after the cursor and no next token.
//   - nextToken is empty on the last page.
//
// Example:
//
//	page, next, err := pagination.Page(posts, func(p db.Post) uint64 { return p.Seq }, token, 20)
func Page[T any](items []T, seq func(T) uint64, token string, limit int) (page []T, nextToken string, err error) {
	c, err := Decode(token)
	if err != nil {
		return nil, "", err
	}

	start := 0
	for start < len(items) && seq(items[start]) <= c.AfterSeq {
		start++
	}
	rest := items[start:]
	if limit <= 0 || len(rest) <= limit {
		return rest, "", nil
	}

	page = rest[:limit]
	nextToken, err = Encode(Cursor{AfterSeq: seq(page[len(page)-1])})
	if err != nil {
		return nil, "", err
	}
	return page, nextToken, nil
}
