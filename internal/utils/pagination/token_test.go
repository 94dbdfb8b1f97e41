package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	// Standard date/time values
	recordDate := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(recordDate, createdAt, "rec-42")
	assert.NotEmpty(t, token, "Token should not be empty")
	assert.NotContains(t, token, "+", "Token should be URL safe")
	assert.NotContains(t, token, "/", "Token should be URL safe")

	decodedDate, decodedCreatedAt, decodedID, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, recordDate, decodedDate, "Record date should match after decode")
	assert.Equal(t, createdAt, decodedCreatedAt, "Created at time should match after decode")
	assert.Equal(t, "rec-42", decodedID, "Record id should match after decode")

	// Zero time values
	zeroTime := time.Time{}
	decodedZeroDate, decodedZeroTime, _, err := DecodeToken(EncodeToken(zeroTime, zeroTime, "x"))
	assert.NoError(t, err, "Decoding zero time should not return an error")
	assert.Equal(t, zeroTime, decodedZeroDate)
	assert.Equal(t, zeroTime, decodedZeroTime)

	// Current time values
	now := time.Now().UTC()
	decodedNowDate, decodedNowTime, _, err := DecodeToken(EncodeToken(now, now, "x"))
	assert.NoError(t, err)
	assert.True(t, now.Equal(decodedNowDate), "Current date should match after decode")
	assert.True(t, now.Equal(decodedNowTime), "Current time should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	_, _, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	noID := base64.RawURLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|2023-05-15T14:30:45Z"))
	_, _, _, err = DecodeToken(noID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	emptyID := base64.RawURLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|2023-05-15T14:30:45Z|"))
	_, _, _, err = DecodeToken(emptyID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.RawURLEncoding.EncodeToString([]byte("notadate|2023-05-15T14:30:45.123456789Z|id"))
	_, _, _, err = DecodeToken(badDate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "record date parse")

	badCreated := base64.RawURLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|yesterday|id"))
	_, _, _, err = DecodeToken(badCreated)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")
}

func TestAfter(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	at := func(h int) time.Time { return time.Date(2024, 3, 20, h, 0, 0, 0, time.UTC) }

	assert.True(t, After(day(1), at(9), "b", day(2), at(9), "b"), "older date comes after")
	assert.False(t, After(day(3), at(9), "b", day(2), at(9), "b"), "newer date comes before")
	assert.True(t, After(day(2), at(8), "z", day(2), at(9), "a"), "same date, older creation comes after")
	assert.True(t, After(day(2), at(9), "a", day(2), at(9), "b"), "full tie, smaller id comes after")
	assert.False(t, After(day(2), at(9), "c", day(2), at(9), "b"), "full tie, larger id comes before")
	assert.False(t, After(day(2), at(9), "b", day(2), at(9), "b"), "cursor item itself is excluded")
}
