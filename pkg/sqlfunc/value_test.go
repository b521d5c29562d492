package sqlfunc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name   string
		in     Value
		want   string
		wantOK bool
	}{
		{"null", nil, "", false},
		{"string", "abc", "abc", true},
		{"bytes", []byte("abc"), "abc", true},
		{"int64", int64(-42), "-42", true},
		{"int", 7, "7", true},
		{"float", 1.5, "1.5", true},
		{"bool", true, "1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Text(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextOrEmpty(t *testing.T) {
	assert.Equal(t, "", TextOrEmpty(nil))
	assert.Equal(t, "x", TextOrEmpty("x"))
}
