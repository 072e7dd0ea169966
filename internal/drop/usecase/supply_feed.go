package usecase

import (
	"context"
	"sync"
	"time"

	catalogmodel "nft-drop/internal/catalog/domain/model"
	"nft-drop/internal/drop/domain/model"
	apperrors "nft-drop/internal/shared/errors"
	"nft-drop/internal/shared/eventbus"
	"nft-drop/internal/shared/logger"

	"go.uber.org/zap"
)

// SupplyReader is the part of the drop usecase the feed polls
type SupplyReader interface {
	Supply(ctx context.Context, collection *catalogmodel.Collection) (*model.Supply, error)
}

// SupplyUpdate is pushed to feed subscribers
type SupplyUpdate struct {
	Collection string       `json:"collection"`
	Supply     model.Supply `json:"supply"`
}

// SupplyFeed polls the supply of drops that have live subscribers and fans it out.
// One poller runs per collection while at least one subscriber is attached.
type SupplyFeed struct {
	reader   SupplyReader
	interval time.Duration
	log      logger.Logger

	mu     sync.RWMutex
	topics map[string]*supplyTopic
}

type supplyTopic struct {
	collection  *catalogmodel.Collection
	subscribers map[string]chan<- SupplyUpdate
	refresh     chan struct{}
	cancel      context.CancelFunc
	last        *model.Supply
}

// NewSupplyFeed creates a feed polling every interval
func NewSupplyFeed(reader SupplyReader, interval time.Duration, log logger.Logger) *SupplyFeed {
	return &SupplyFeed{
		reader:   reader,
		interval: interval,
		log:      log.WithComponent("supply_feed"),
		topics:   make(map[string]*supplyTopic),
	}
}

// Subscribe attaches ch to the collection's feed. The caller owns ch and must
// Unsubscribe before closing it.
func (f *SupplyFeed) Subscribe(ctx context.Context, collection *catalogmodel.Collection, subscriberID string, ch chan<- SupplyUpdate) error {
	if !collection.HasDrop() {
		return apperrors.ErrDropNotConfigured
	}
	slug := collection.SlugValue()

	f.mu.Lock()
	defer f.mu.Unlock()

	topic, ok := f.topics[slug]
	if !ok {
		pollCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		topic = &supplyTopic{
			collection:  collection,
			subscribers: make(map[string]chan<- SupplyUpdate),
			refresh:     make(chan struct{}, 1),
			cancel:      cancel,
		}
		f.topics[slug] = topic
		go f.poll(pollCtx, slug, topic)
	}
	if _, exists := topic.subscribers[subscriberID]; exists {
		f.log.WithFields(logger.Fields(zap.String("subscriber_id", subscriberID), zap.String("collection", slug))).
			Warn("subscriber already attached, overwriting")
	}
	topic.subscribers[subscriberID] = ch

	if topic.last != nil {
		select {
		case ch <- SupplyUpdate{Collection: slug, Supply: *topic.last}:
		default:
		}
	}
	f.log.WithFields(logger.Fields(
		zap.String("subscriber_id", subscriberID),
		zap.String("collection", slug),
		zap.Int("subscribers", len(topic.subscribers)),
	)).Debug("supply subscriber attached")
	return nil
}

// Unsubscribe detaches a subscriber and stops the poller once nobody listens
func (f *SupplyFeed) Unsubscribe(slug, subscriberID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	topic, ok := f.topics[slug]
	if !ok {
		return
	}
	delete(topic.subscribers, subscriberID)
	if len(topic.subscribers) == 0 {
		topic.cancel()
		delete(f.topics, slug)
	}
}

// SubscriberCount returns the number of subscribers attached to slug
func (f *SupplyFeed) SubscriberCount(slug string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if topic, ok := f.topics[slug]; ok {
		return len(topic.subscribers)
	}
	return 0
}

// Refresh asks the poller of slug to read the supply now
func (f *SupplyFeed) Refresh(slug string) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if topic, ok := f.topics[slug]; ok {
		select {
		case topic.refresh <- struct{}{}:
		default:
		}
	}
}

// HandleMintConfirmed is an event bus handler refreshing the feed of the minted collection
func (f *SupplyFeed) HandleMintConfirmed(ctx context.Context, event eventbus.Event) error {
	if e, ok := event.Data().(MintEvent); ok {
		f.Refresh(e.Collection)
	}
	return nil
}

// Close stops every poller
func (f *SupplyFeed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for slug, topic := range f.topics {
		topic.cancel()
		delete(f.topics, slug)
	}
}

func (f *SupplyFeed) poll(ctx context.Context, slug string, topic *supplyTopic) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		f.read(ctx, slug, topic)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-topic.refresh:
		}
	}
}

func (f *SupplyFeed) read(ctx context.Context, slug string, topic *supplyTopic) {
	supply, err := f.reader.Supply(ctx, topic.collection)
	if err != nil {
		if ctx.Err() == nil {
			f.log.WithFields(logger.Fields(zap.String("collection", slug), zap.Error(err))).Warn("supply poll failed")
		}
		return
	}
	f.broadcast(slug, topic, supply)
}

// broadcast sends without blocking; a subscriber with a full channel misses the update
func (f *SupplyFeed) broadcast(slug string, topic *supplyTopic, supply *model.Supply) {
	f.mu.Lock()
	defer f.mu.Unlock()

	topic.last = supply
	update := SupplyUpdate{Collection: slug, Supply: *supply}
	for id, ch := range topic.subscribers {
		select {
		case ch <- update:
		default:
			f.log.WithFields(logger.Fields(zap.String("subscriber_id", id), zap.String("collection", slug))).
				Debug("subscriber channel full, update dropped")
		}
	}
}
