package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSuggestTicketPrice(t *testing.T) {
	tests := []struct {
		name     string
		hallName string
		want     decimal.Decimal
	}{
		{"VIP hall", "VIP Lounge", decimal.NewFromInt(25)},
		{"IMAX hall", "IMAX Hall 3", decimal.NewFromInt(20)},
		{"premium hall", "Premium Screen", decimal.NewFromInt(18)},
		{"3D hall", "Hall 2 (3D)", decimal.NewFromInt(15)},
		{"standard hall", "Hall 1", decimal.NewFromInt(12)},
		{"lowercase keyword", "vip salon", decimal.NewFromInt(25)},
		{"IMAX outranks VIP", "IMAX VIP Hall", decimal.NewFromInt(20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestTicketPrice(tt.hallName)
			if !got.Equal(tt.want) {
				t.Errorf("SuggestTicketPrice(%q) = %s, want %s", tt.hallName, got, tt.want)
			}
		})
	}
}
