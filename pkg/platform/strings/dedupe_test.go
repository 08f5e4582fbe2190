package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "empty slice", input: []string{}, expected: []string{}},
		{
			name:     "broker list from env",
			input:    []string{" kafka-1:9092", "kafka-2:9092 ", "", "kafka-1:9092"},
			expected: []string{"kafka-1:9092", "kafka-2:9092"},
		},
		{
			name:     "only blanks",
			input:    []string{" ", ""},
			expected: []string{},
		},
		{
			name:     "case is significant",
			input:    []string{"Anjouan", "anjouan"},
			expected: []string{"Anjouan", "anjouan"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestDedupeNormalized(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{
			name:     "keeps first spelling",
			input:    []string{" Grande  Comore", "grande comore", "Anjouan", "ANJOUAN "},
			expected: []string{"Grande  Comore", "Anjouan"},
		},
		{
			name:     "drops blanks",
			input:    []string{"", "  ", "Mohéli"},
			expected: []string{"Mohéli"},
		},
		{
			name:     "only blanks",
			input:    []string{" "},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeNormalized(tt.input))
		})
	}
}
