package business

import (
	"context"
	"sync"

	"github.com/stavropolsky/tg-track/internal/domain/channel/entities"
)

// Destination resolves the destination channel once and caches the result.
// A failed resolution is not cached.
type Destination struct {
	resolver  *Resolver
	reference string

	mu   sync.RWMutex
	info *entities.ChannelInfo
}

// NewDestination creates a Destination for a configured channel reference
func NewDestination(resolver *Resolver, reference string) *Destination {
	return &Destination{
		resolver:  resolver,
		reference: reference,
	}
}

// Locate returns the destination channel identity.
// Resolution runs without the lock held; the first stored result wins.
func (d *Destination) Locate(ctx context.Context) (*entities.ChannelInfo, error) {
	if info := d.cached(); info != nil {
		return info, nil
	}

	info, err := d.resolver.Resolve(ctx, d.reference)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.info == nil {
		d.info = info
	}
	return d.info, nil
}

func (d *Destination) cached() *entities.ChannelInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.info
}

// IsDestination reports whether chatID is the destination channel.
// It only consults the cache, so it is false before the first Locate.
func (d *Destination) IsDestination(chatID int64) bool {
	info := d.cached()
	return info != nil && info.ChatID == chatID
}
