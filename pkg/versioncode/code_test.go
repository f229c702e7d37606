package versioncode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		version string
		want    int
	}{
		{"0.0.1", 1},
		{"0.0.2", 2},
		{"1.0.0", 10000},
		{"1.2.3", 10203},
		{"0.1.0", 100},
		{"2.99.99", 29999},
		{"210000.0.0", MaxCode},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			got, err := Compute(tt.version)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeErrors(t *testing.T) {
	tests := []struct {
		version string
		want    error
	}{
		{"1.0", ErrMalformedVersion},
		{"1", ErrMalformedVersion},
		{"v1.0.0", ErrMalformedVersion},
		{"1.0.0-beta.1", ErrMalformedVersion},
		{"1.0.0+build5", ErrMalformedVersion},
		{"a.b.c", ErrMalformedVersion},
		{"", ErrMalformedVersion},
		{"1.100.0", ErrComponentOverflow},
		{"1.0.100", ErrComponentOverflow},
		{"210000.0.1", ErrCodeTooLarge},
		{"300000.0.0", ErrCodeTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			_, err := Compute(tt.version)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBump(t *testing.T) {
	tests := []struct {
		current string
		level   string
		want    string
	}{
		{"0.0.1", "patch", "0.0.2"},
		{"0.0.9", "minor", "0.1.0"},
		{"1.2.3", "major", "2.0.0"},
		{"1.2.3", "4.5.6", "4.5.6"},
		{"not-a-version", "2.0.0", "2.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.current+"/"+tt.level, func(t *testing.T) {
			got, err := Bump(tt.current, tt.level)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBumpErrors(t *testing.T) {
	t.Run("PatchOverflow", func(t *testing.T) {
		_, err := Bump("1.0.99", "patch")
		assert.ErrorIs(t, err, ErrComponentOverflow)
	})

	t.Run("MalformedCurrent", func(t *testing.T) {
		_, err := Bump("1.0", "patch")
		assert.ErrorIs(t, err, ErrMalformedVersion)
	})

	t.Run("MalformedExplicit", func(t *testing.T) {
		_, err := Bump("1.0.0", "next")
		assert.ErrorIs(t, err, ErrMalformedVersion)
	})
}
