package utils

import "testing"

func TestReplaceUnicodeSymbols(t *testing.T) {
	tests := []struct {
		name string
		s    string
		want string
	}{
		{"ampersand", "S\\u0026P 500", "S&P 500"},
		{"cyrillic", "\\u0418\\u0440\\u0430\\u043d", "Иран"},
		{"no escapes", "Brent falls", "Brent falls"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReplaceUnicodeSymbols(tt.s); got != tt.want {
				t.Errorf("ReplaceUnicodeSymbols() = %v, want %v", got, tt.want)
			}
		})
	}
}
