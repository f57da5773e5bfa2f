package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

var priceTiers = []struct {
	keyword string
	price   decimal.Decimal
}{
	{"IMAX", decimal.NewFromInt(20)},
	{"VIP", decimal.NewFromInt(25)},
	{"PREMIUM", decimal.NewFromInt(18)},
	{"3D", decimal.NewFromInt(15)},
}

var standardTicketPrice = decimal.NewFromInt(12)

// SuggestTicketPrice derives a default ticket price from hall-name keywords.
// It is a convenience default only; staff can always override it when
// scheduling a screening.
func SuggestTicketPrice(hallName string) decimal.Decimal {
	name := strings.ToUpper(hallName)

	for _, tier := range priceTiers {
		if strings.Contains(name, tier.keyword) {
			return tier.price
		}
	}

	return standardTicketPrice
}
