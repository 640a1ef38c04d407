package broker

import (
	"context"
	"errors"

	"github.com/rustyeddy/optiondesk/market"
)

var (
	ErrNotConnected  = errors.New("not connected to broker")
	ErrUnknownSymbol = errors.New("unknown symbol")
)

// QuoteProvider is the price-feed contract the platform engine consumes.
// The demo implementation generates synthetic quotes; a real feed can be
// swapped in behind the same interface.
type QuoteProvider interface {
	// Quote returns a fresh quote for symbol.
	Quote(ctx context.Context, symbol string) (market.Quote, error)

	// Subscribe registers fn for periodic quotes on symbol. Multiple
	// subscribers to the same symbol share one underlying ticker.
	Subscribe(symbol string, fn func(market.Quote)) (Subscription, error)

	// Unsubscribe removes exactly one callback. Unsubscribing a handle
	// twice is a no-op. When a symbol's last callback is removed its
	// ticker stops.
	Unsubscribe(Subscription)
}

// Subscription identifies one registered price callback.
type Subscription struct {
	Symbol string
	ID     int
}

type Account struct {
	ID       string
	Currency string
	Balance  float64
}
