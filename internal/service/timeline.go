package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kiwari-pos/dinein/internal/database"
	"github.com/kiwari-pos/dinein/internal/metrics"
	"go.uber.org/zap"
)

// TimelineStore defines the DB methods needed by the audit log.
// Satisfied by *database.Queries.
type TimelineStore interface {
	AppendTimelineEvent(ctx context.Context, arg database.AppendTimelineEventParams) (database.OrderTimelineEvent, error)
	AppendTableChange(ctx context.Context, arg database.AppendTableChangeParams) (database.TableChangeLog, error)
	ListTimelineEventsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderTimelineEvent, error)
	ListTableChangesByOrder(ctx context.Context, orderID uuid.UUID) ([]database.TableChangeLog, error)
	ListTableChanges(ctx context.Context, arg database.ListTableChangesParams) ([]database.TableChangeLog, error)
}

// TimelineEntry is one order event. Empty statuses are stored as NULL.
type TimelineEntry struct {
	OrderID        uuid.UUID
	RestaurantID   uuid.UUID
	Action         string
	Actor          Actor
	PreviousStatus database.OrderStatus
	NewStatus      database.OrderStatus
	Payload        map[string]any
	Expandable     bool
}

// Placement is where an order sits. Zero fields are unknown and stored as NULL.
type Placement struct {
	RoomID      uuid.UUID
	RoomName    string
	TableID     uuid.UUID
	TableNumber int32
}

// TableChange is one reassignment of an order between tables.
type TableChange struct {
	OrderID      uuid.UUID
	RestaurantID uuid.UUID
	From         Placement
	To           Placement
	Actor        Actor
}

// NewTimelineStore creates a TimelineStore from a DBTX (pool, tx or savepoint).
type NewTimelineStore func(db database.DBTX) TimelineStore

// Timeline appends to the order timeline and the table change log. Both
// are append-only; nothing here updates or deletes.
type Timeline struct {
	store    TimelineStore
	newStore NewTimelineStore
	log      *zap.Logger
	metrics  *metrics.Metrics
}

func NewTimeline(db database.DBTX, newStore NewTimelineStore, log *zap.Logger, m *metrics.Metrics) *Timeline {
	return &Timeline{store: newStore(db), newStore: newStore, log: log, metrics: m}
}

// Record appends e inside tx, under whatever row locks tx holds, so events
// for one order land in the order their transitions committed. The write
// runs in a savepoint: a failure rolls back only the event, is logged and
// counted, and leaves tx usable.
func (t *Timeline) Record(ctx context.Context, tx pgx.Tx, e TimelineEntry) {
	err := t.inSavepoint(ctx, tx, func(store TimelineStore) error {
		_, err := appendEvent(ctx, store, e)
		return err
	})
	if err != nil {
		t.metrics.AuditWriteFailures.WithLabelValues("timeline").Inc()
		t.log.Warn("timeline append failed",
			zap.String("order_id", e.OrderID.String()),
			zap.String("action", e.Action),
			zap.String("error_kind", string(KindAuditWriteFailed)),
			zap.Error(err),
		)
	}
}

// RecordTableChange is Record for the table change log.
func (t *Timeline) RecordTableChange(ctx context.Context, tx pgx.Tx, c TableChange) {
	err := t.inSavepoint(ctx, tx, func(store TimelineStore) error {
		_, err := appendChange(ctx, store, c)
		return err
	})
	if err != nil {
		t.metrics.AuditWriteFailures.WithLabelValues("table_change").Inc()
		t.log.Warn("table change log append failed",
			zap.String("order_id", c.OrderID.String()),
			zap.String("action", "table_change"),
			zap.String("error_kind", string(KindAuditWriteFailed)),
			zap.Error(err),
		)
	}
}

func (t *Timeline) inSavepoint(ctx context.Context, tx pgx.Tx, fn func(store TimelineStore) error) error {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: savepoint: %w", ErrAuditWriteFailed, err)
	}
	if err := fn(t.newStore(sp)); err != nil {
		if rbErr := sp.Rollback(ctx); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback savepoint: %w", rbErr))
		}
		return err
	}
	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("%w: release savepoint: %w", ErrAuditWriteFailed, err)
	}
	return nil
}

func appendEvent(ctx context.Context, store TimelineStore, e TimelineEntry) (database.OrderTimelineEvent, error) {
	payload := []byte("{}")
	if len(e.Payload) > 0 {
		b, err := json.Marshal(e.Payload)
		if err != nil {
			return database.OrderTimelineEvent{}, fmt.Errorf("%w: encode payload: %w", ErrAuditWriteFailed, err)
		}
		payload = b
	}

	ev, err := store.AppendTimelineEvent(ctx, database.AppendTimelineEventParams{
		OrderID:         e.OrderID,
		RestaurantID:    e.RestaurantID,
		Action:          e.Action,
		EventSource:     e.Actor.Source(),
		OperatorType:    e.Actor.OperatorType(),
		OperatorStaffID: e.Actor.staffRef(),
		OperatorName:    e.Actor.Name(),
		PreviousStatus:  nullStatus(e.PreviousStatus),
		NewStatus:       nullStatus(e.NewStatus),
		Payload:         payload,
		Expandable:      e.Expandable,
	})
	if err != nil {
		return database.OrderTimelineEvent{}, fmt.Errorf("%w: append %s event: %w", ErrAuditWriteFailed, e.Action, err)
	}
	return ev, nil
}

func appendChange(ctx context.Context, store TimelineStore, c TableChange) (database.TableChangeLog, error) {
	entry, err := store.AppendTableChange(ctx, database.AppendTableChangeParams{
		OrderID:          c.OrderID,
		RestaurantID:     c.RestaurantID,
		OldRoomID:        optUUID(c.From.RoomID),
		OldRoomName:      optText(c.From.RoomName),
		OldTableID:       optUUID(c.From.TableID),
		OldTableNumber:   optInt4(c.From.TableNumber),
		NewRoomID:        c.To.RoomID,
		NewRoomName:      c.To.RoomName,
		NewTableID:       c.To.TableID,
		NewTableNumber:   c.To.TableNumber,
		ChangedByStaffID: c.Actor.staffRef(),
		ChangedByName:    c.Actor.Name(),
	})
	if err != nil {
		return database.TableChangeLog{}, fmt.Errorf("%w: append table change: %w", ErrAuditWriteFailed, err)
	}
	return entry, nil
}

// ListTableChanges returns the restaurant's change log, newest first.
func (t *Timeline) ListTableChanges(ctx context.Context, restaurantID uuid.UUID, limit, offset int32) ([]database.TableChangeLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	entries, err := t.store.ListTableChanges(ctx, database.ListTableChangesParams{
		RestaurantID: restaurantID,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return nil, storeErr("list table changes", err)
	}
	return entries, nil
}

func (t *Timeline) listByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderTimelineEvent, []database.TableChangeLog, error) {
	events, err := t.store.ListTimelineEventsByOrder(ctx, orderID)
	if err != nil {
		return nil, nil, storeErr("list timeline", err)
	}
	changes, err := t.store.ListTableChangesByOrder(ctx, orderID)
	if err != nil {
		return nil, nil, storeErr("list table changes", err)
	}
	return events, changes, nil
}

// --- Helpers ---

func nullStatus(s database.OrderStatus) database.NullOrderStatus {
	if s == "" {
		return database.NullOrderStatus{}
	}
	return database.NullOrderStatus{OrderStatus: s, Valid: true}
}

func optUUID(id uuid.UUID) pgtype.UUID {
	if id == uuid.Nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: id, Valid: true}
}

func optText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func optInt4(n int32) pgtype.Int4 {
	if n == 0 {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: n, Valid: true}
}

func uuidOrNil(id pgtype.UUID) uuid.UUID {
	if !id.Valid {
		return uuid.Nil
	}
	return uuid.UUID(id.Bytes)
}
