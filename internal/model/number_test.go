package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
		ok   bool
	}{
		{nil, "0", true},
		{int64(7), "7", true},
		{100.1, "100.1", true},
		{[]byte(" 12.50 "), "12.5", true},
		{"-3", "-3", true},
		{"n/a", "0", false},
		{[]byte(""), "0", false},
	}
	for _, tc := range cases {
		got, ok := ParseNumber(tc.in)
		assert.Equal(t, tc.ok, ok, "%v", tc.in)
		assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "%v -> %s", tc.in, got)
	}
}
