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
	"github.com/shopspring/decimal"
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// DB is a pool that runs queries directly and opens transactions.
// Satisfied by *pgxpool.Pool.
type DB interface {
	database.DBTX
	TxBeginner
}

// Notifier is told when a restaurant's floor may have changed.
type Notifier interface {
	Trigger(restaurantID uuid.UUID)
}

type nopNotifier struct{}

func (nopNotifier) Trigger(uuid.UUID) {}

// OrderStore defines the DB methods needed by the order state machine.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
	GetOrderForUpdate(ctx context.Context, arg database.GetOrderForUpdateParams) (database.Order, error)
	TransitionOrderStatus(ctx context.Context, arg database.TransitionOrderStatusParams) (database.Order, error)
	FinalizeOrder(ctx context.Context, arg database.FinalizeOrderParams) (database.Order, error)
	SoftDeleteOrder(ctx context.Context, arg database.SoftDeleteOrderParams) (database.Order, error)
	UpdateOrderTotal(ctx context.Context, arg database.UpdateOrderTotalParams) (database.Order, error)
	NextReceiptNumber(ctx context.Context, restaurantID uuid.UUID) (int32, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	MarkOrderItemsPrepared(ctx context.Context, orderID uuid.UUID) (int64, error)
	GetTable(ctx context.Context, arg database.GetTableParams) (database.DiningTable, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
// This allows the service to create store instances from transactions.
type NewOrderStore func(db database.DBTX) OrderStore

// CreateOrderRequest is the validated input for opening an order. A zero
// TableID opens the order without a table.
type CreateOrderRequest struct {
	RestaurantID uuid.UUID
	RoomID       uuid.UUID
	TableID      uuid.UUID
	Notes        string
	Items        []ItemRequest
}

// ItemRequest is a single line to add. A zero VariantID means no variant.
type ItemRequest struct {
	ProductID uuid.UUID
	VariantID uuid.UUID
	Quantity  int32
	Notes     string
}

// OrderDetail is an order with its line items.
type OrderDetail struct {
	Order database.Order
	Items []database.OrderItem
}

// Bill is the data a receipt renderer consumes. ReceiptNumber is zero for
// a preconto.
type Bill struct {
	Order         database.Order
	Items         []database.OrderItem
	Total         decimal.Decimal
	ReceiptNumber int32
}

// OrderTimeline is everything recorded against one order.
type OrderTimeline struct {
	Events       []database.OrderTimelineEvent
	TableChanges []database.TableChangeLog
}

// DeleteResult is the outcome for one id of a bulk delete.
type DeleteResult struct {
	OrderID uuid.UUID
	Err     error
}

// OrderService drives the order status state machine. Every status change
// is one conditional update under the order's row lock; the audit entry is
// appended before the lock is released.
type OrderService struct {
	db       DB
	newStore NewOrderStore
	catalog  Catalog
	timeline *Timeline
	metrics  *metrics.Metrics
	notifier Notifier
}

// NewOrderService creates a new OrderService.
func NewOrderService(db DB, newStore NewOrderStore, catalog Catalog, timeline *Timeline, m *metrics.Metrics) *OrderService {
	return &OrderService{
		db:       db,
		newStore: newStore,
		catalog:  catalog,
		timeline: timeline,
		metrics:  m,
		notifier: nopNotifier{},
	}
}

// SetNotifier registers the floor refresher.
func (s *OrderService) SetNotifier(n Notifier) {
	if n == nil {
		n = nopNotifier{}
	}
	s.notifier = n
}

// IsActive reports whether status still occupies a table.
func IsActive(status database.OrderStatus) bool {
	switch status {
	case database.OrderStatusPending, database.OrderStatusConfirmed, database.OrderStatusPreparing:
		return true
	}
	return false
}

// nextConfirmStatus is the stage a confirm moves to. Pending skips
// confirmed; re-confirming a preparing order sends another batch.
func nextConfirmStatus(status database.OrderStatus) (database.OrderStatus, bool) {
	switch status {
	case database.OrderStatusPending, database.OrderStatusConfirmed, database.OrderStatusPreparing:
		return database.OrderStatusPreparing, true
	}
	return "", false
}

// CreateOrder opens a pending order, optionally at a table, with its first
// items priced from the catalog.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest, actor Actor) (*OrderDetail, error) {
	if !actor.valid() {
		return nil, ErrInvalidActor
	}
	lines, err := s.snapshotItems(ctx, req.RestaurantID, req.Items)
	if err != nil {
		return nil, err
	}

	// --- Begin transaction ---
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, storeErr("begin tx", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	params := database.CreateOrderParams{
		RestaurantID:   req.RestaurantID,
		Notes:          optText(req.Notes),
		LastModifiedBy: actor.staffRef(),
	}
	if req.TableID != uuid.Nil {
		table, err := store.GetTable(ctx, database.GetTableParams{ID: req.TableID, RestaurantID: req.RestaurantID})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrTableNotFound
			}
			return nil, storeErr("get table", err)
		}
		if req.RoomID != uuid.Nil && req.RoomID != table.RoomID {
			return nil, ErrRoomMismatch
		}
		params.RoomID = pgtype.UUID{Bytes: table.RoomID, Valid: true}
		params.TableID = pgtype.UUID{Bytes: table.ID, Valid: true}
		params.TableNumber = pgtype.Int4{Int32: table.TableNumber, Valid: true}
	}

	order, err := store.CreateOrder(ctx, params)
	if err != nil {
		return nil, storeErr("create order", err)
	}

	items, err := insertItems(ctx, store, order.ID, lines)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		order, err = store.UpdateOrderTotal(ctx, database.UpdateOrderTotalParams{ID: order.ID, LastModifiedBy: actor.staffRef()})
		if err != nil {
			return nil, storeErr("update total", err)
		}
	}

	s.timeline.Record(ctx, tx, TimelineEntry{
		OrderID:      order.ID,
		RestaurantID: order.RestaurantID,
		Action:       enum.ActionCreated,
		Actor:        actor,
		NewStatus:    order.Status,
		Payload:      map[string]any{"items": len(items)},
	})

	// --- Commit ---
	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr("commit tx", err)
	}
	s.committed(order.RestaurantID, enum.ActionCreated)

	return &OrderDetail{Order: order, Items: items}, nil
}

// AddItems appends unprepared items to an active order. They stay pending
// for the kitchen until the next confirm.
func (s *OrderService) AddItems(ctx context.Context, restaurantID, orderID uuid.UUID, reqItems []ItemRequest, actor Actor) (*OrderDetail, error) {
	if !actor.valid() {
		return nil, ErrInvalidActor
	}
	if len(reqItems) == 0 {
		return nil, ErrEmptyItems
	}
	lines, err := s.snapshotItems(ctx, restaurantID, reqItems)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, storeErr("begin tx", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := lockOrder(ctx, store, restaurantID, orderID)
	if err != nil {
		return nil, err
	}
	if !IsActive(order.Status) {
		return nil, fmt.Errorf("add items to %s order: %w", order.Status, ErrInvalidTransition)
	}

	if _, err := insertItems(ctx, store, order.ID, lines); err != nil {
		return nil, err
	}
	order, err = store.UpdateOrderTotal(ctx, database.UpdateOrderTotalParams{ID: order.ID, LastModifiedBy: actor.staffRef()})
	if err != nil {
		return nil, storeErr("update total", err)
	}
	items, err := store.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return nil, storeErr("list items", err)
	}

	s.timeline.Record(ctx, tx, TimelineEntry{
		OrderID:      order.ID,
		RestaurantID: restaurantID,
		Action:       enum.ActionItemsAdded,
		Actor:        actor,
		Payload:      map[string]any{"items": len(lines)},
	})

	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr("commit tx", err)
	}
	s.committed(restaurantID, enum.ActionItemsAdded)

	return &OrderDetail{Order: order, Items: items}, nil
}

// GetOrder returns a non-deleted order with its items.
func (s *OrderService) GetOrder(ctx context.Context, restaurantID, orderID uuid.UUID) (*OrderDetail, error) {
	store := s.newStore(s.db)
	order, err := getLiveOrder(ctx, store, restaurantID, orderID)
	if err != nil {
		return nil, err
	}
	items, err := store.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return nil, storeErr("list items", err)
	}
	return &OrderDetail{Order: order, Items: items}, nil
}

// GetTimeline returns the order's events in insertion order. Soft-deleted
// orders keep their history readable.
func (s *OrderService) GetTimeline(ctx context.Context, restaurantID, orderID uuid.UUID) (*OrderTimeline, error) {
	store := s.newStore(s.db)
	if _, err := store.GetOrder(ctx, database.GetOrderParams{ID: orderID, RestaurantID: restaurantID}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get order", err)
	}
	events, changes, err := s.timeline.listByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderTimeline{Events: events, TableChanges: changes}, nil
}

// ConfirmOrder sends the current batch to the kitchen: the order advances
// to preparing and every unprepared item is marked prepared.
func (s *OrderService) ConfirmOrder(ctx context.Context, restaurantID, orderID uuid.UUID, actor Actor) (*database.Order, error) {
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
		return nil, storeErr("get order", err)
	}
	if order.DeletedAt.Valid {
		return nil, fmt.Errorf("confirm deleted order: %w", ErrInvalidTransition)
	}
	next, ok := nextConfirmStatus(order.Status)
	if !ok {
		return nil, fmt.Errorf("confirm %s order: %w", order.Status, ErrInvalidTransition)
	}

	updated, err := store.TransitionOrderStatus(ctx, database.TransitionOrderStatusParams{
		NewStatus:      next,
		LastModifiedBy: actor.staffRef(),
		ID:             order.ID,
		RestaurantID:   restaurantID,
		ExpectedStatus: order.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("confirm: status changed concurrently: %w", ErrInvalidTransition)
		}
		return nil, storeErr("transition order", err)
	}

	sent, err := store.MarkOrderItemsPrepared(ctx, order.ID)
	if err != nil {
		return nil, storeErr("mark items prepared", err)
	}

	s.timeline.Record(ctx, tx, TimelineEntry{
		OrderID:        order.ID,
		RestaurantID:   restaurantID,
		Action:         enum.ActionConfirmed,
		Actor:          actor,
		PreviousStatus: order.Status,
		NewStatus:      updated.Status,
		Payload:        map[string]any{"items_sent": sent},
	})

	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr("commit tx", err)
	}
	s.committed(restaurantID, enum.ActionConfirmed)

	return &updated, nil
}

// GeneratePreconto builds a bill preview. It does not change the order,
// but holds its row lock so the event is ordered with concurrent changes.
func (s *OrderService) GeneratePreconto(ctx context.Context, restaurantID, orderID uuid.UUID, actor Actor) (*Bill, error) {
	if !actor.valid() {
		return nil, ErrInvalidActor
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, storeErr("begin tx", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := lockOrder(ctx, store, restaurantID, orderID)
	if err != nil {
		return nil, err
	}
	items, err := store.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return nil, storeErr("list items", err)
	}
	total := billTotal(items)

	s.timeline.Record(ctx, tx, TimelineEntry{
		OrderID:      order.ID,
		RestaurantID: restaurantID,
		Action:       enum.ActionPreconto,
		Actor:        actor,
		Payload:      map[string]any{"total": total.StringFixed(2)},
	})

	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr("commit tx", err)
	}

	return &Bill{Order: order, Items: items, Total: total}, nil
}

// GenerateScontrino finalizes the order: the total is recomputed from its
// items, a receipt number is assigned and the order completes. This is the
// only path that frees a table.
func (s *OrderService) GenerateScontrino(ctx context.Context, restaurantID, orderID uuid.UUID, actor Actor) (*Bill, error) {
	if !actor.valid() {
		return nil, ErrInvalidActor
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, storeErr("begin tx", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := lockOrder(ctx, store, restaurantID, orderID)
	if err != nil {
		return nil, err
	}
	switch order.Status {
	case database.OrderStatusCompleted:
		return nil, ErrAlreadyFinalized
	case database.OrderStatusCancelled:
		return nil, fmt.Errorf("finalize cancelled order: %w", ErrInvalidTransition)
	}

	items, err := store.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return nil, storeErr("list items", err)
	}
	total := billTotal(items)

	receipt, err := store.NextReceiptNumber(ctx, restaurantID)
	if err != nil {
		return nil, storeErr("next receipt number", err)
	}

	final, err := store.FinalizeOrder(ctx, database.FinalizeOrderParams{
		ReceiptNumber:  pgtype.Int4{Int32: receipt, Valid: true},
		TotalAmount:    decimalToNumeric(total),
		LastModifiedBy: actor.staffRef(),
		ID:             order.ID,
		RestaurantID:   restaurantID,
		ExpectedStatus: order.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAlreadyFinalized
		}
		return nil, storeErr("finalize order", err)
	}

	s.timeline.Record(ctx, tx, TimelineEntry{
		OrderID:        order.ID,
		RestaurantID:   restaurantID,
		Action:         enum.ActionScontrino,
		Actor:          actor,
		PreviousStatus: order.Status,
		NewStatus:      final.Status,
		Payload: map[string]any{
			"receipt_number": receipt,
			"total":          total.StringFixed(2),
		},
	})

	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr("commit tx", err)
	}
	s.committed(restaurantID, enum.ActionScontrino)

	return &Bill{Order: final, Items: items, Total: total, ReceiptNumber: receipt}, nil
}

// CancelOrder moves an active order to cancelled, freeing its table
// without a receipt.
func (s *OrderService) CancelOrder(ctx context.Context, restaurantID, orderID uuid.UUID, actor Actor) (*database.Order, error) {
	if !actor.valid() {
		return nil, ErrInvalidActor
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, storeErr("begin tx", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := lockOrder(ctx, store, restaurantID, orderID)
	if err != nil {
		return nil, err
	}
	if !IsActive(order.Status) {
		return nil, fmt.Errorf("cancel %s order: %w", order.Status, ErrInvalidTransition)
	}

	updated, err := store.TransitionOrderStatus(ctx, database.TransitionOrderStatusParams{
		NewStatus:      database.OrderStatusCancelled,
		LastModifiedBy: actor.staffRef(),
		ID:             order.ID,
		RestaurantID:   restaurantID,
		ExpectedStatus: order.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("cancel: status changed concurrently: %w", ErrInvalidTransition)
		}
		return nil, storeErr("transition order", err)
	}

	s.timeline.Record(ctx, tx, TimelineEntry{
		OrderID:        order.ID,
		RestaurantID:   restaurantID,
		Action:         enum.ActionCancelled,
		Actor:          actor,
		PreviousStatus: order.Status,
		NewStatus:      updated.Status,
	})

	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr("commit tx", err)
	}
	s.committed(restaurantID, enum.ActionCancelled)

	return &updated, nil
}

// DeleteOrder soft-deletes an order in any status. It disappears from every
// active query and occupancy computation; its history stays.
func (s *OrderService) DeleteOrder(ctx context.Context, restaurantID, orderID uuid.UUID, actor Actor) error {
	if !actor.valid() {
		return ErrInvalidActor
	}
	if err := s.softDelete(ctx, restaurantID, orderID, actor, false); err != nil {
		return err
	}
	s.notifier.Trigger(restaurantID)
	return nil
}

// DeleteOrders soft-deletes each id independently. One result is returned
// per id, in input order; a failure does not stop the rest.
func (s *OrderService) DeleteOrders(ctx context.Context, restaurantID uuid.UUID, orderIDs []uuid.UUID, actor Actor) ([]DeleteResult, error) {
	if !actor.valid() {
		return nil, ErrInvalidActor
	}
	if len(orderIDs) == 0 {
		return nil, ErrEmptyOrderIDs
	}

	results := make([]DeleteResult, 0, len(orderIDs))
	deleted := 0
	for _, id := range orderIDs {
		err := s.softDelete(ctx, restaurantID, id, actor, true)
		if err == nil {
			deleted++
		}
		results = append(results, DeleteResult{OrderID: id, Err: err})
	}
	if deleted > 0 {
		s.notifier.Trigger(restaurantID)
	}
	return results, nil
}

func (s *OrderService) softDelete(ctx context.Context, restaurantID, orderID uuid.UUID, actor Actor, bulk bool) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return storeErr("begin tx", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := lockOrder(ctx, store, restaurantID, orderID)
	if err != nil {
		return err
	}

	if _, err := store.SoftDeleteOrder(ctx, database.SoftDeleteOrderParams{
		ID:             order.ID,
		RestaurantID:   restaurantID,
		LastModifiedBy: actor.staffRef(),
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return storeErr("soft delete order", err)
	}

	s.timeline.Record(ctx, tx, TimelineEntry{
		OrderID:        order.ID,
		RestaurantID:   restaurantID,
		Action:         enum.ActionCancelled,
		Actor:          actor,
		PreviousStatus: order.Status,
		NewStatus:      order.Status,
		Payload:        map[string]any{"soft_deleted": true, "bulk": bulk},
	})

	if err := tx.Commit(ctx); err != nil {
		return storeErr("commit tx", err)
	}
	s.metrics.Transitions.WithLabelValues("deleted").Inc()
	return nil
}

func (s *OrderService) committed(restaurantID uuid.UUID, action string) {
	s.metrics.Transitions.WithLabelValues(action).Inc()
	s.notifier.Trigger(restaurantID)
}

// snapshotItems validates and prices every requested line before any write.
func (s *OrderService) snapshotItems(ctx context.Context, restaurantID uuid.UUID, reqItems []ItemRequest) ([]database.CreateOrderItemParams, error) {
	lines := make([]database.CreateOrderItemParams, 0, len(reqItems))
	for i, item := range reqItems {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrInvalidQuantity)
		}
		snap, err := s.catalog.Snapshot(ctx, restaurantID, item.ProductID, item.VariantID)
		if err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, err)
		}
		qty := decimal.NewFromInt32(item.Quantity)
		lines = append(lines, database.CreateOrderItemParams{
			ProductID:    snap.ProductID,
			ProductName:  snap.ProductName,
			VariantID:    optUUID(snap.VariantID),
			VariantTitle: optText(snap.VariantTitle),
			Quantity:     item.Quantity,
			UnitPrice:    decimalToNumeric(snap.UnitPrice),
			Subtotal:     decimalToNumeric(snap.UnitPrice.Mul(qty)),
			Notes:        optText(item.Notes),
		})
	}
	return lines, nil
}

// --- Helpers ---

func insertItems(ctx context.Context, store OrderStore, orderID uuid.UUID, lines []database.CreateOrderItemParams) ([]database.OrderItem, error) {
	items := make([]database.OrderItem, 0, len(lines))
	for _, line := range lines {
		line.OrderID = orderID
		item, err := store.CreateOrderItem(ctx, line)
		if err != nil {
			return nil, storeErr("create order item", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// getLiveOrder loads an order, treating soft-deleted as missing.
func getLiveOrder(ctx context.Context, store OrderStore, restaurantID, orderID uuid.UUID) (database.Order, error) {
	order, err := store.GetOrder(ctx, database.GetOrderParams{ID: orderID, RestaurantID: restaurantID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrNotFound
		}
		return database.Order{}, storeErr("get order", err)
	}
	if order.DeletedAt.Valid {
		return database.Order{}, ErrNotFound
	}
	return order, nil
}

// lockOrder is getLiveOrder under a row lock.
func lockOrder(ctx context.Context, store OrderStore, restaurantID, orderID uuid.UUID) (database.Order, error) {
	order, err := store.GetOrderForUpdate(ctx, database.GetOrderForUpdateParams{ID: orderID, RestaurantID: restaurantID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrNotFound
		}
		return database.Order{}, storeErr("lock order", err)
	}
	if order.DeletedAt.Valid {
		return database.Order{}, ErrNotFound
	}
	return order, nil
}

// billTotal is the sum of unit_price * quantity over every line.
func billTotal(items []database.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(numericToDecimal(it.UnitPrice).Mul(decimal.NewFromInt32(it.Quantity)))
	}
	return total
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
