package numfmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommaGrouping(t *testing.T) {
	cases := map[uint64]string{
		0:              "0",
		7:              "7",
		999:            "999",
		1000:           "1,000",
		1000000:        "1,000,000",
		1000001000000:  "1,000,001,000,000",
	}
	for n, want := range cases {
		assert.Equal(t, want, Comma(n), "n=%d", n)
	}
}

func TestParseNumberSciNotationAndPlain(t *testing.T) {
	cases := map[string]uint64{
		"1e12":  1_000_000_000_000,
		"2.5e6": 2_500_000,
		"42":    42,
		"1e9":   1_000_000_000,
	}
	for in, want := range cases {
		got, err := ParseNumber(in)
		assert.NoError(t, err)
		assert.Equal(t, want, got, "in=%s", in)
	}
}

func TestParseNumberRejectsNegative(t *testing.T) {
	_, err := ParseNumber("-5")
	assert.Error(t, err)
}

func TestDurationBuckets(t *testing.T) {
	assert.Equal(t, "42s", Duration(42*time.Second))
	assert.Equal(t, "3m 7s", Duration(3*time.Minute+7*time.Second))
	assert.Equal(t, "2h 14m", Duration(2*time.Hour+14*time.Minute))
	assert.Equal(t, "1d 3h", Duration(27*time.Hour))
}

func TestRateSuffixes(t *testing.T) {
	assert.Equal(t, "500/s", Rate(500))
	assert.Equal(t, "1.5K/s", Rate(1500))
	assert.Equal(t, "2.3M/s", Rate(2_300_000))
}
