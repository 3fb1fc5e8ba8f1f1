package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kiwari-pos/dinein/internal/database"
	"github.com/kiwari-pos/dinein/internal/enum"
	"github.com/kiwari-pos/dinein/internal/metrics"
)

// ReassignStore defines the DB methods needed to move an order between
// tables. Satisfied by *database.Queries.
type ReassignStore interface {
	GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
	GetOrderForUpdate(ctx context.Context, arg database.GetOrderForUpdateParams) (database.Order, error)
	GetTableForUpdate(ctx context.Context, arg database.GetTableForUpdateParams) (database.DiningTable, error)
	GetRoom(ctx context.Context, arg database.GetRoomParams) (database.Room, error)
	ReassignOrderTable(ctx context.Context, arg database.ReassignOrderTableParams) (database.Order, error)
}

// NewReassignStore creates a ReassignStore from a DBTX (pool or tx).
type NewReassignStore func(db database.DBTX) ReassignStore

// FloorResolver resolves a restaurant's current occupancy.
type FloorResolver interface {
	ResolveFloor(ctx context.Context, restaurantID uuid.UUID) (Snapshot, error)
}

// ReassignService moves active orders between tables. An orphaned order is
// recovered the same way, with no originating table.
type ReassignService struct {
	db       DB
	newStore NewReassignStore
	floor    FloorResolver
	timeline *Timeline
	metrics  *metrics.Metrics
	notifier Notifier
}

// NewReassignService creates a new ReassignService.
func NewReassignService(db DB, newStore NewReassignStore, floor FloorResolver, timeline *Timeline, m *metrics.Metrics) *ReassignService {
	return &ReassignService{
		db:       db,
		newStore: newStore,
		floor:    floor,
		timeline: timeline,
		metrics:  m,
		notifier: nopNotifier{},
	}
}

// SetNotifier registers the floor refresher.
func (s *ReassignService) SetNotifier(n Notifier) {
	if n == nil {
		n = nopNotifier{}
	}
	s.notifier = n
}

// ChangeTable moves an active order to newTableID in newRoomID. The order
// row and then the destination table row are locked, so concurrent moves
// onto the same table serialize and the later one sees the earlier one's
// order when its conditional update re-checks the destination. The
// timeline event and change log entry are appended under the same locks
// and cannot undo the move.
func (s *ReassignService) ChangeTable(ctx context.Context, restaurantID, orderID, newRoomID, newTableID uuid.UUID, actor Actor) (*database.Order, error) {
	if !actor.valid() {
		return nil, ErrInvalidActor
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, storeErr("begin tx", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrderForUpdate(ctx, database.GetOrderForUpdateParams{ID: orderID, RestaurantID: restaurantID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storeErr("lock order", err)
	}
	if order.DeletedAt.Valid {
		return nil, ErrNotFound
	}
	if !IsActive(order.Status) {
		return nil, fmt.Errorf("move %s order: %w", order.Status, ErrInvalidTransition)
	}
	if order.TableID.Valid && uuid.UUID(order.TableID.Bytes) == newTableID {
		return nil, ErrNoChange
	}

	table, err := store.GetTableForUpdate(ctx, database.GetTableForUpdateParams{ID: newTableID, RestaurantID: restaurantID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storeErr("lock table", err)
	}
	if table.RoomID != newRoomID {
		return nil, fmt.Errorf("table %d is not in room %s: %w", table.TableNumber, newRoomID, ErrNotFound)
	}
	room, err := store.GetRoom(ctx, database.GetRoomParams{ID: newRoomID, RestaurantID: restaurantID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get room", err)
	}

	snap, err := s.floor.ResolveFloor(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if dest, ok := snap.Table(newTableID); ok && occupiedByOther(dest, order.ID) {
		return nil, ErrTableOccupied
	}

	moved, err := store.ReassignOrderTable(ctx, database.ReassignOrderTableParams{
		RoomID:          pgtype.UUID{Bytes: room.ID, Valid: true},
		TableID:         pgtype.UUID{Bytes: table.ID, Valid: true},
		TableNumber:     pgtype.Int4{Int32: table.TableNumber, Valid: true},
		LastModifiedBy:  actor.staffRef(),
		ID:              order.ID,
		RestaurantID:    restaurantID,
		ExpectedTableID: order.TableID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, classifyLostMove(ctx, store, order)
		}
		return nil, storeErr("reassign order table", err)
	}

	from := origin(ctx, store, order)
	to := Placement{RoomID: room.ID, RoomName: room.Name, TableID: table.ID, TableNumber: table.TableNumber}

	s.timeline.Record(ctx, tx, TimelineEntry{
		OrderID:      order.ID,
		RestaurantID: restaurantID,
		Action:       enum.ActionTableChanged,
		Actor:        actor,
		Expandable:   true,
		Payload: map[string]any{
			"summary":          placementLabel(from, order.TableID.Valid) + " → " + placementLabel(to, true),
			"old_table_id":     optID(from.TableID),
			"old_table_number": from.TableNumber,
			"new_table_id":     to.TableID.String(),
			"new_table_number": to.TableNumber,
		},
	})
	s.timeline.RecordTableChange(ctx, tx, TableChange{
		OrderID:      order.ID,
		RestaurantID: restaurantID,
		From:         from,
		To:           to,
		Actor:        actor,
	})

	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr("commit tx", err)
	}
	s.metrics.Transitions.WithLabelValues(enum.ActionTableChanged).Inc()
	s.notifier.Trigger(restaurantID)

	return &moved, nil
}

// classifyLostMove explains why the conditional update matched nothing:
// either the order itself changed, or someone took the destination first.
func classifyLostMove(ctx context.Context, store ReassignStore, before database.Order) error {
	current, err := store.GetOrder(ctx, database.GetOrderParams{ID: before.ID, RestaurantID: before.RestaurantID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return storeErr("get order", err)
	}
	if current.DeletedAt.Valid || !IsActive(current.Status) || current.TableID != before.TableID {
		return fmt.Errorf("move: order changed concurrently: %w", ErrInvalidTransition)
	}
	return ErrTableOccupied
}

// origin describes where the order sat before the move. The room name is
// looked up best-effort; a missing room leaves it blank.
func origin(ctx context.Context, store ReassignStore, order database.Order) Placement {
	var p Placement
	if order.TableNumber.Valid {
		p.TableNumber = order.TableNumber.Int32
	}
	p.TableID = uuidOrNil(order.TableID)
	if !order.RoomID.Valid || !order.TableID.Valid {
		return p
	}
	p.RoomID = uuid.UUID(order.RoomID.Bytes)
	if room, err := store.GetRoom(ctx, database.GetRoomParams{ID: p.RoomID, RestaurantID: order.RestaurantID}); err == nil {
		p.RoomName = room.Name
	}
	return p
}

func occupiedByOther(t TableState, orderID uuid.UUID) bool {
	if t.Status == TableClosed {
		return false
	}
	for _, id := range t.OrderIDs {
		if id != orderID {
			return true
		}
	}
	return false
}

// placementLabel renders "Room T3". An origin without a table renders as
// "T3 (removed)" when the number is known, otherwise "unassigned".
func placementLabel(p Placement, hasTable bool) string {
	if !hasTable {
		if p.TableNumber > 0 {
			return fmt.Sprintf("T%d (removed)", p.TableNumber)
		}
		return "unassigned"
	}
	if p.RoomName == "" {
		return fmt.Sprintf("T%d", p.TableNumber)
	}
	return fmt.Sprintf("%s T%d", p.RoomName, p.TableNumber)
}

func optID(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id.String()
}
