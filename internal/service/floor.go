package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kiwari-pos/dinein/internal/database"
	"github.com/kiwari-pos/dinein/internal/enum"
	"github.com/kiwari-pos/dinein/internal/metrics"
)

// FloorStore defines the DB methods needed to resolve and maintain a floor.
// Satisfied by *database.Queries (and its WithTx variant).
type FloorStore interface {
	ListTables(ctx context.Context, restaurantID uuid.UUID) ([]database.ListTablesRow, error)
	ListActiveOrders(ctx context.Context, restaurantID uuid.UUID) ([]database.Order, error)
	ListOrderItemsByOrders(ctx context.Context, orderIds []uuid.UUID) ([]database.OrderItem, error)
	ListRooms(ctx context.Context, restaurantID uuid.UUID) ([]database.Room, error)
	CreateRoom(ctx context.Context, arg database.CreateRoomParams) (database.Room, error)
	GetRoom(ctx context.Context, arg database.GetRoomParams) (database.Room, error)
	CreateTable(ctx context.Context, arg database.CreateTableParams) (database.DiningTable, error)
	GetTableForUpdate(ctx context.Context, arg database.GetTableForUpdateParams) (database.DiningTable, error)
	DeleteTable(ctx context.Context, arg database.DeleteTableParams) (int64, error)
	ClearTableFromOrders(ctx context.Context, tableID pgtype.UUID) ([]database.Order, error)
}

// NewFloorStore creates a FloorStore from a DBTX (pool or tx).
type NewFloorStore func(db database.DBTX) FloorStore

// ActiveOrders splits the active orders by whether their table resolves.
type ActiveOrders struct {
	Assigned []database.Order
	Orphaned []database.Order
}

// CreateTableRequest is the input for adding a table to a room.
type CreateTableRequest struct {
	RoomID      uuid.UUID
	TableNumber int32
	Seats       int32
}

// FloorService loads floor state and runs the occupancy resolver over it.
// Resolution never mutates.
type FloorService struct {
	db       DB
	newStore NewFloorStore
	timeline *Timeline
	metrics  *metrics.Metrics
	notifier Notifier
	now      func() time.Time
}

// NewFloorService creates a new FloorService.
func NewFloorService(db DB, newStore NewFloorStore, timeline *Timeline, m *metrics.Metrics) *FloorService {
	return &FloorService{
		db:       db,
		newStore: newStore,
		timeline: timeline,
		metrics:  m,
		notifier: nopNotifier{},
		now:      time.Now,
	}
}

// SetNotifier registers the floor refresher.
func (s *FloorService) SetNotifier(n Notifier) {
	if n == nil {
		n = nopNotifier{}
	}
	s.notifier = n
}

// ResolveFloor loads tables, active orders and their items and resolves
// the occupancy of every table.
func (s *FloorService) ResolveFloor(ctx context.Context, restaurantID uuid.UUID) (Snapshot, error) {
	start := time.Now()
	defer func() { s.metrics.ResolveDuration.Observe(time.Since(start).Seconds()) }()

	store := s.newStore(s.db)

	tables, err := store.ListTables(ctx, restaurantID)
	if err != nil {
		return Snapshot{}, storeErr("list tables", err)
	}
	orders, err := store.ListActiveOrders(ctx, restaurantID)
	if err != nil {
		return Snapshot{}, storeErr("list active orders", err)
	}

	var items []database.OrderItem
	if len(orders) > 0 {
		ids := make([]uuid.UUID, len(orders))
		for i, o := range orders {
			ids[i] = o.ID
		}
		if items, err = store.ListOrderItemsByOrders(ctx, ids); err != nil {
			return Snapshot{}, storeErr("list order items", err)
		}
	}

	return Resolve(tables, orders, items, s.now()), nil
}

// GetActiveOrders returns every active order, split into assigned and
// orphaned.
func (s *FloorService) GetActiveOrders(ctx context.Context, restaurantID uuid.UUID) (*ActiveOrders, error) {
	store := s.newStore(s.db)

	tables, err := store.ListTables(ctx, restaurantID)
	if err != nil {
		return nil, storeErr("list tables", err)
	}
	orders, err := store.ListActiveOrders(ctx, restaurantID)
	if err != nil {
		return nil, storeErr("list active orders", err)
	}

	known := make(map[uuid.UUID]bool, len(tables))
	for _, t := range tables {
		known[t.ID] = true
	}
	result := &ActiveOrders{Assigned: []database.Order{}, Orphaned: []database.Order{}}
	for _, o := range orders {
		if o.DeletedAt.Valid || !IsActive(o.Status) {
			continue
		}
		if o.TableID.Valid && known[uuid.UUID(o.TableID.Bytes)] {
			result.Assigned = append(result.Assigned, o)
		} else {
			result.Orphaned = append(result.Orphaned, o)
		}
	}
	return result, nil
}

// GetOccupiedTables returns the ids of tables that are not closed.
func (s *FloorService) GetOccupiedTables(ctx context.Context, restaurantID uuid.UUID) ([]uuid.UUID, error) {
	snap, err := s.ResolveFloor(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	return snap.Occupied(), nil
}

// ListOrphans returns active orders with no resolvable table. Recovery is
// a ChangeTable to any free table.
func (s *FloorService) ListOrphans(ctx context.Context, restaurantID uuid.UUID) ([]database.Order, error) {
	active, err := s.GetActiveOrders(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	return active.Orphaned, nil
}

func (s *FloorService) ListRooms(ctx context.Context, restaurantID uuid.UUID) ([]database.Room, error) {
	rooms, err := s.newStore(s.db).ListRooms(ctx, restaurantID)
	if err != nil {
		return nil, storeErr("list rooms", err)
	}
	return rooms, nil
}

func (s *FloorService) CreateRoom(ctx context.Context, restaurantID uuid.UUID, name string, sortOrder int32) (*database.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	room, err := s.newStore(s.db).CreateRoom(ctx, database.CreateRoomParams{
		RestaurantID: restaurantID,
		Name:         name,
		SortOrder:    sortOrder,
	})
	if err != nil {
		return nil, storeErr("create room", err)
	}
	return &room, nil
}

func (s *FloorService) ListTables(ctx context.Context, restaurantID uuid.UUID) ([]database.ListTablesRow, error) {
	tables, err := s.newStore(s.db).ListTables(ctx, restaurantID)
	if err != nil {
		return nil, storeErr("list tables", err)
	}
	return tables, nil
}

func (s *FloorService) CreateTable(ctx context.Context, restaurantID uuid.UUID, req CreateTableRequest) (*database.DiningTable, error) {
	if req.TableNumber <= 0 {
		return nil, ErrInvalidTableSpec
	}
	if req.Seats <= 0 {
		req.Seats = 4
	}
	store := s.newStore(s.db)
	if _, err := store.GetRoom(ctx, database.GetRoomParams{ID: req.RoomID, RestaurantID: restaurantID}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get room", err)
	}
	table, err := store.CreateTable(ctx, database.CreateTableParams{
		RestaurantID: restaurantID,
		RoomID:       req.RoomID,
		TableNumber:  req.TableNumber,
		Seats:        req.Seats,
	})
	if err != nil {
		if isUniqueViolation(err, "dining_tables_restaurant_number_active_key") {
			return nil, ErrTableNumberTaken
		}
		return nil, storeErr("create table", err)
	}
	s.notifier.Trigger(restaurantID)
	return &table, nil
}

// DeleteTable removes a table. Orders that referenced it keep their table
// number snapshot but lose the reference; active ones become orphans.
// Orders are never deleted with their table.
func (s *FloorService) DeleteTable(ctx context.Context, restaurantID, tableID uuid.UUID, actor Actor) ([]database.Order, error) {
	if !actor.valid() {
		return nil, ErrInvalidActor
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, storeErr("begin tx", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	table, err := store.GetTableForUpdate(ctx, database.GetTableForUpdateParams{ID: tableID, RestaurantID: restaurantID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storeErr("lock table", err)
	}

	cleared, err := store.ClearTableFromOrders(ctx, optUUID(table.ID))
	if err != nil {
		return nil, storeErr("clear table from orders", err)
	}
	n, err := store.DeleteTable(ctx, database.DeleteTableParams{ID: table.ID, RestaurantID: restaurantID})
	if err != nil {
		return nil, storeErr("delete table", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	var orphaned []database.Order
	for _, o := range cleared {
		if o.DeletedAt.Valid || !IsActive(o.Status) {
			continue
		}
		orphaned = append(orphaned, o)
		s.timeline.Record(ctx, tx, TimelineEntry{
			OrderID:      o.ID,
			RestaurantID: restaurantID,
			Action:       enum.ActionTableRemoved,
			Actor:        actor,
			Payload: map[string]any{
				"table_id":     table.ID.String(),
				"table_number": table.TableNumber,
			},
		})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr("commit tx", err)
	}
	s.metrics.Transitions.WithLabelValues(enum.ActionTableRemoved).Add(float64(len(orphaned)))
	s.notifier.Trigger(restaurantID)

	return orphaned, nil
}

// isUniqueViolation checks for a unique constraint violation (pgconn error
// code 23505) on the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == constraint
	}
	return false
}
