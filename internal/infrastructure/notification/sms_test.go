package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already e164", "+15551234567", "+15551234567"},
		{"bare us number", "5551234567", "+15551234567"},
		{"formatted us number", "(555) 123-4567", "+15551234567"},
		{"dotted us number", "555.123.4567", "+15551234567"},
		{"international untouched", "+447911123456", "+447911123456"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.input))
		})
	}
}

func TestNoopSMSSender(t *testing.T) {
	result := NoopSMSSender{}.Send(context.Background(), "+15551234567", "hello")
	assert.False(t, result.Success)
	assert.Equal(t, "+15551234567", result.To)
	assert.NotEmpty(t, result.Error)
}
