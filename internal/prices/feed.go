package prices

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"cryptofolio/internal/portfolio"
)

// IDSource supplies the set of price-feed identifiers to poll.
type IDSource interface {
	ListPriceFeedIDs() ([]string, error)
}

// Feed polls CoinGecko on a fixed interval and keeps the latest quotes in
// an in-memory cache. Quotes outlive a failed poll until their TTL
// expires, after which the affected assets degrade to zero value in the
// portfolio computations.
type Feed struct {
	client   *Client
	source   IDSource
	cache    *gocache.Cache
	interval time.Duration
	log      *zap.SugaredLogger
	done     chan struct{}
}

// NewFeed creates a price feed polling at the given interval. Cached
// quotes survive up to five missed polls before expiring.
func NewFeed(client *Client, source IDSource, interval time.Duration, log *zap.SugaredLogger) *Feed {
	return &Feed{
		client:   client,
		source:   source,
		cache:    gocache.New(5*interval, 10*interval),
		interval: interval,
		log:      log,
		done:     make(chan struct{}),
	}
}

// Start begins polling in a background goroutine until ctx is cancelled
// or Stop is called. The first refresh happens immediately.
func (f *Feed) Start(ctx context.Context) {
	go func() {
		f.refresh(ctx)

		ticker := time.NewTicker(f.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-f.done:
				return
			case <-ticker.C:
				f.refresh(ctx)
			}
		}
	}()
}

// Stop tears the poller down. Safe to call once.
func (f *Feed) Stop() {
	close(f.done)
}

// Refresh fetches quotes for all known price-feed IDs and replaces the
// cached entries. Errors are returned for callers that poll manually;
// the background loop only logs them.
func (f *Feed) Refresh(ctx context.Context) error {
	ids, err := f.source.ListPriceFeedIDs()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	quotes, err := f.client.SimplePrice(ctx, ids)
	if err != nil {
		return err
	}

	for id, quote := range quotes {
		f.cache.SetDefault(id, quote)
	}
	return nil
}

func (f *Feed) refresh(ctx context.Context) {
	if err := f.Refresh(ctx); err != nil {
		f.log.Warnw("price refresh failed", "error", err)
	}
}

// Snapshot returns the current quote map. Missing or expired entries are
// simply absent; callers treat absent quotes as zero-valued.
func (f *Feed) Snapshot() map[string]portfolio.Quote {
	items := f.cache.Items()
	quotes := make(map[string]portfolio.Quote, len(items))
	for id, item := range items {
		if quote, ok := item.Object.(portfolio.Quote); ok {
			quotes[id] = quote
		}
	}
	return quotes
}
