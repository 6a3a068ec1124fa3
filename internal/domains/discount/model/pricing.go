package model

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type PriceRequest struct {
	ServiceID   string
	CategoryID  string
	ListedPrice int64
	OfferCode   string
	UserID      string
}

type AppliedDiscount struct {
	DiscountID   string
	Code         string
	Name         string
	Type         string
	Value        float64
	Amount       int64
	PerUserLimit int
}

// PriceResolution is the price frozen onto a booking. Discount is nil when the listed
// price applies.
type PriceResolution struct {
	ServiceID   string
	CategoryID  string
	ListedPrice int64
	Discount    *AppliedDiscount
	FinalPrice  int64
}

// Amount is the money taken off listed. Percentages round half away from zero; the result
// never exceeds listed.
func (d Discount) Amount(listed int64) int64 {
	if listed <= 0 || d.Value <= 0 {
		return 0
	}

	var amount decimal.Decimal

	switch d.Type {
	case TypePercentage:
		amount = decimal.NewFromInt(listed).Mul(decimal.NewFromFloat(d.Value)).Div(hundred).Round(0)
	case TypeFixed:
		amount = decimal.NewFromFloat(d.Value).Round(0)
	default:
		return 0
	}

	return min(amount.IntPart(), listed)
}

func ListedPrice(req PriceRequest) PriceResolution {
	return PriceResolution{
		ServiceID:   req.ServiceID,
		CategoryID:  req.CategoryID,
		ListedPrice: req.ListedPrice,
		FinalPrice:  req.ListedPrice,
	}
}

func Apply(req PriceRequest, d Discount) PriceResolution {
	amount := d.Amount(req.ListedPrice)

	res := ListedPrice(req)
	res.FinalPrice = max(req.ListedPrice-amount, 0)
	res.Discount = &AppliedDiscount{
		DiscountID:   d.ID,
		Code:         d.Code,
		Name:         d.Name,
		Type:         d.Type,
		Value:        d.Value,
		Amount:       amount,
		PerUserLimit: d.PerUserLimit,
	}

	return res
}

// Best picks the offer saving the customer the most on listed. Ties go to the offer that
// ends first, then to the lowest id, so the choice is stable between requests.
func Best(listed int64, candidates []Discount) (Discount, bool) {
	if len(candidates) == 0 {
		return Discount{}, false
	}

	ranked := slices.Clone(candidates)
	slices.SortFunc(ranked, func(a, b Discount) int {
		if c := cmp.Compare(b.Amount(listed), a.Amount(listed)); c != 0 {
			return c
		}

		if c := a.EndDate.Compare(b.EndDate); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})

	if ranked[0].Amount(listed) <= 0 {
		return Discount{}, false
	}

	return ranked[0], true
}
