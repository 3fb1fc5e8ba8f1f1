package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Broadcaster fans a message out to a restaurant's snapshot subscribers.
// Satisfied by *ws.Hub.
type Broadcaster interface {
	ActiveRestaurants() []uuid.UUID
	BroadcastToRestaurant(restaurantID uuid.UUID, msg []byte)
}

// SnapshotEvent is the message pushed to floor subscribers.
type SnapshotEvent struct {
	Type         string    `json:"type"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Data         Snapshot  `json:"data"`
}

const snapshotEventType = "floor.snapshot"

// Refresher re-resolves floors on a fixed interval and whenever a mutation
// triggers it. Delivery is best-effort: clients that miss a push catch up
// on the next tick.
type Refresher struct {
	floor    FloorResolver
	hub      Broadcaster
	logger   *zap.Logger
	interval time.Duration
	trigger  chan uuid.UUID
	stopChan chan struct{}
}

func NewRefresher(floor FloorResolver, hub Broadcaster, logger *zap.Logger, interval time.Duration) *Refresher {
	return &Refresher{
		floor:    floor,
		hub:      hub,
		logger:   logger,
		interval: interval,
		trigger:  make(chan uuid.UUID, 64),
		stopChan: make(chan struct{}),
	}
}

// Start runs until Stop is called or ctx is done.
func (r *Refresher) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("occupancy refresher started", zap.Duration("interval", r.interval))

	for {
		select {
		case <-ticker.C:
			for _, rid := range r.hub.ActiveRestaurants() {
				r.refresh(ctx, rid)
			}
		case rid := <-r.trigger:
			r.refresh(ctx, rid)
		case <-r.stopChan:
			r.logger.Info("occupancy refresher stopped")
			return
		case <-ctx.Done():
			r.logger.Info("occupancy refresher context cancelled")
			return
		}
	}
}

func (r *Refresher) Stop() {
	close(r.stopChan)
}

// Trigger schedules a refresh of one restaurant. It never blocks; when the
// queue is full the next tick covers it.
func (r *Refresher) Trigger(restaurantID uuid.UUID) {
	select {
	case r.trigger <- restaurantID:
	default:
	}
}

func (r *Refresher) refresh(ctx context.Context, restaurantID uuid.UUID) {
	snap, err := r.floor.ResolveFloor(ctx, restaurantID)
	if err != nil {
		r.logger.Error("occupancy refresh failed",
			zap.String("restaurant_id", restaurantID.String()),
			zap.String("error_kind", string(KindOf(err))),
			zap.Error(err),
		)
		return
	}

	msg, err := json.Marshal(SnapshotEvent{Type: snapshotEventType, RestaurantID: restaurantID, Data: snap})
	if err != nil {
		r.logger.Error("encode snapshot", zap.Error(err))
		return
	}
	r.hub.BroadcastToRestaurant(restaurantID, msg)
}
