package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// EncodeToken creates a cursor from the record date, creation time and id of
// the last item of a page. Listings are ordered by (date, created_at, id)
// descending, so the next page starts strictly after this triple.
// The token is URL safe so it can travel as a query parameter.
func EncodeToken(recordDate time.Time, createdAt time.Time, recordID string) string {
	tokenStr := fmt.Sprintf("%s|%s|%s", recordDate.Format(timeFormat), createdAt.Format(timeFormat), recordID)
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a cursor back into record date, creation time and id.
func DecodeToken(token string) (time.Time, time.Time, string, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, time.Time{}, "", fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 || parts[2] == "" {
		return time.Time{}, time.Time{}, "", fmt.Errorf("invalid pagination token format (split)")
	}

	recordDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, "", fmt.Errorf("invalid pagination token format (record date parse): %w", err)
	}

	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return time.Time{}, time.Time{}, "", fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}

	return recordDate, createdAt, parts[2], nil
}

// After reports whether an item at (date, createdAt, id) falls after the cursor
// in (date desc, createdAt desc, id desc) order.
func After(date, createdAt time.Time, id string, cursorDate, cursorCreatedAt time.Time, cursorID string) bool {
	if !date.Equal(cursorDate) {
		return date.Before(cursorDate)
	}
	if !createdAt.Equal(cursorCreatedAt) {
		return createdAt.Before(cursorCreatedAt)
	}
	return id < cursorID
}
