// Package rates resolves foreign exchange rates for ledger summaries.
//
// A Provider answers "how many units of the quote currency is one unit of
// base worth". The quote currency is fixed when the provider chain is built;
// summaries convert every staked currency into it before applying the
// commission rate.
package rates

import (
	"context"

	"github.com/shopspring/decimal"
)

type Provider interface {
	// Rate returns the quote-per-base conversion rate. Providers return 1
	// when base equals the quote currency.
	Rate(ctx context.Context, base string) (decimal.Decimal, error)
	Quote() string
}
