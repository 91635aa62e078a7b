package fetcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Fill is a single trade execution as reported by the exchange. Size and
// price arrive as numeric strings.
type Fill struct {
	Time int64  `json:"time"`
	Oid  int64  `json:"oid"`
	Coin string `json:"coin"`
	Side string `json:"side"`
	Sz   string `json:"sz"`
	Px   string `json:"px"`
}

// ID returns the composite identifier used for de-duplication.
func (f Fill) ID() string {
	return fmt.Sprintf("%d:%d", f.Time, f.Oid)
}

// Size parses the fill size, falling back to zero on malformed input.
func (f Fill) Size() decimal.Decimal {
	return parseDecimal(f.Sz)
}

// Price parses the fill price, falling back to zero on malformed input.
func (f Fill) Price() decimal.Decimal {
	return parseDecimal(f.Px)
}

func parseDecimal(v string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FillFetcher retrieves the current fill snapshot for an account address.
type FillFetcher interface {
	FetchFills(ctx context.Context, address string) ([]Fill, error)
}
