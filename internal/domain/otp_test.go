package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatestOtp_Empty(t *testing.T) {
	_, ok := LatestOtp(nil)
	assert.False(t, ok)

	_, ok = LatestOtp([]OtpRecord{})
	assert.False(t, ok)
}

func TestLatestOtp_PicksGreatestExpiry(t *testing.T) {
	records := []OtpRecord{
		{OtpID: "01A", Code: "aaaaaa", ExpiresAt: 100},
		{OtpID: "01C", Code: "cccccc", ExpiresAt: 300},
		{OtpID: "01B", Code: "bbbbbb", ExpiresAt: 200},
	}
	latest, ok := LatestOtp(records)
	assert.True(t, ok)
	assert.Equal(t, "cccccc", latest.Code)
}

func TestLatestOtp_TieBrokenByOtpID(t *testing.T) {
	// Two concurrent issues can land on the same second; the record with
	// the greater ULID was written last and wins.
	records := []OtpRecord{
		{OtpID: "01HZZZZZZZ01", Code: "first1", ExpiresAt: 500},
		{OtpID: "01HZZZZZZZ02", Code: "second", ExpiresAt: 500},
	}
	latest, ok := LatestOtp(records)
	assert.True(t, ok)
	assert.Equal(t, "second", latest.Code)

	// Order of the input slice must not matter.
	latest, ok = LatestOtp([]OtpRecord{records[1], records[0]})
	assert.True(t, ok)
	assert.Equal(t, "second", latest.Code)
}

func TestLatestOtp_SingleRecord(t *testing.T) {
	latest, ok := LatestOtp([]OtpRecord{{OtpID: "01X", Code: "a1b2c3", ExpiresAt: 42}})
	assert.True(t, ok)
	assert.Equal(t, "a1b2c3", latest.Code)
}
