package helpers

import "testing"

func TestFormatEuro(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "€ 0,00"},
		{950, "€ 950,00"},
		{1234.56, "€ 1.234,56"},
		{1000000, "€ 1.000.000,00"},
		{-450.5, "€ -450,50"},
	}
	for _, tt := range tests {
		if got := FormatEuro(tt.amount); got != tt.want {
			t.Errorf("FormatEuro(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}
