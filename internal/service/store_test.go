package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kiwari-pos/dinein/internal/database"
	"github.com/kiwari-pos/dinein/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// --- Mock implementations ---

// mockTx implements pgx.Tx with only the methods we need.
// The unused methods panic so we catch accidental calls. Begin opens a
// savepoint, recorded in savepoints.
type mockTx struct {
	commitErr    error
	rollbackErr  error
	savepointErr error
	commits      int
	rollbacks    int
	savepoints   []*mockTx

	// onCommit runs when a commit succeeds, while the tx still holds its locks.
	onCommit func()
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) {
	if m.savepointErr != nil {
		return nil, m.savepointErr
	}
	sp := &mockTx{}
	m.savepoints = append(m.savepoints, sp)
	return sp, nil
}
func (m *mockTx) Commit(ctx context.Context) error {
	m.commits++
	if m.commitErr == nil && m.onCommit != nil {
		m.onCommit()
	}
	return m.commitErr
}
func (m *mockTx) Rollback(ctx context.Context) error {
	m.rollbacks++
	return m.rollbackErr
}
func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (m *mockTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }
func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}
func (m *mockTx) Conn() *pgx.Conn { panic("not implemented") }

// mockDB implements DB. Queries never reach it: the store factories in
// these tests ignore the DBTX they are given.
type mockDB struct {
	tx       pgx.Tx
	beginErr error
}

func (m *mockDB) Begin(ctx context.Context) (pgx.Tx, error) { return m.tx, m.beginErr }
func (m *mockDB) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (m *mockDB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	panic("not implemented")
}
func (m *mockDB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	panic("not implemented")
}

// memStore is an in-memory stand-in for *database.Queries that honours the
// WHERE clauses of the conditional updates.
type memStore struct {
	clock time.Time

	orders      map[uuid.UUID]*database.Order
	orderSeq    []uuid.UUID
	items       []database.OrderItem
	rooms       map[uuid.UUID]database.Room
	tables      map[uuid.UUID]database.DiningTable
	tableSeq    []uuid.UUID
	products    map[uuid.UUID]productRow
	variants    map[uuid.UUID]database.GetVariantSnapshotRow
	events      []database.OrderTimelineEvent
	changes     []database.TableChangeLog
	receipts    map[uuid.UUID]int32
	timelineErr error
	changeErr   error
	listErr     error

	// afterLock runs after GetOrderForUpdate has returned its snapshot,
	// simulating a concurrent writer.
	afterLock func(o *database.Order)

	// locks records row locks and moves in call order.
	locks []string
}

type productRow struct {
	restaurantID uuid.UUID
	row          database.GetProductSnapshotRow
}

func newMemStore() *memStore {
	return &memStore{
		clock:    time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC),
		orders:   map[uuid.UUID]*database.Order{},
		rooms:    map[uuid.UUID]database.Room{},
		tables:   map[uuid.UUID]database.DiningTable{},
		products: map[uuid.UUID]productRow{},
		variants: map[uuid.UUID]database.GetVariantSnapshotRow{},
		receipts: map[uuid.UUID]int32{},
	}
}

func (m *memStore) advance(d time.Duration) { m.clock = m.clock.Add(d) }

// --- orders ---

func (m *memStore) CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
	o := &database.Order{
		ID:             uuid.New(),
		RestaurantID:   arg.RestaurantID,
		RoomID:         arg.RoomID,
		TableID:        arg.TableID,
		TableNumber:    arg.TableNumber,
		Status:         database.OrderStatusPending,
		TotalAmount:    makeNumeric("0"),
		Notes:          arg.Notes,
		CreatedAt:      m.clock,
		UpdatedAt:      m.clock,
		LastModifiedBy: arg.LastModifiedBy,
	}
	m.orders[o.ID] = o
	m.orderSeq = append(m.orderSeq, o.ID)
	return *o, nil
}

func (m *memStore) find(id, restaurantID uuid.UUID) (*database.Order, error) {
	o, ok := m.orders[id]
	if !ok || o.RestaurantID != restaurantID {
		return nil, pgx.ErrNoRows
	}
	return o, nil
}

func (m *memStore) GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error) {
	o, err := m.find(arg.ID, arg.RestaurantID)
	if err != nil {
		return database.Order{}, err
	}
	return *o, nil
}

func (m *memStore) GetOrderForUpdate(ctx context.Context, arg database.GetOrderForUpdateParams) (database.Order, error) {
	o, err := m.find(arg.ID, arg.RestaurantID)
	if err != nil {
		return database.Order{}, err
	}
	m.locks = append(m.locks, "order:"+o.ID.String())
	snapshot := *o
	if m.afterLock != nil {
		m.afterLock(o)
	}
	return snapshot, nil
}

func (m *memStore) ListActiveOrders(ctx context.Context, restaurantID uuid.UUID) ([]database.Order, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []database.Order
	for _, id := range m.orderSeq {
		o := m.orders[id]
		if o.RestaurantID == restaurantID && !o.DeletedAt.Valid && IsActive(o.Status) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memStore) TransitionOrderStatus(ctx context.Context, arg database.TransitionOrderStatusParams) (database.Order, error) {
	o, err := m.find(arg.ID, arg.RestaurantID)
	if err != nil || o.Status != arg.ExpectedStatus || o.DeletedAt.Valid {
		return database.Order{}, pgx.ErrNoRows
	}
	o.Status = arg.NewStatus
	if arg.NewStatus == database.OrderStatusPreparing && !o.OpenedAt.Valid {
		o.OpenedAt = pgtype.Timestamptz{Time: m.clock, Valid: true}
	}
	o.LastModifiedBy = arg.LastModifiedBy
	o.UpdatedAt = m.clock
	return *o, nil
}

func (m *memStore) FinalizeOrder(ctx context.Context, arg database.FinalizeOrderParams) (database.Order, error) {
	o, err := m.find(arg.ID, arg.RestaurantID)
	if err != nil || o.Status != arg.ExpectedStatus || o.ReceiptNumber.Valid || o.DeletedAt.Valid {
		return database.Order{}, pgx.ErrNoRows
	}
	o.Status = database.OrderStatusCompleted
	o.ReceiptNumber = arg.ReceiptNumber
	o.TotalAmount = arg.TotalAmount
	o.CompletedAt = pgtype.Timestamptz{Time: m.clock, Valid: true}
	o.LastModifiedBy = arg.LastModifiedBy
	o.UpdatedAt = m.clock
	return *o, nil
}

func (m *memStore) SoftDeleteOrder(ctx context.Context, arg database.SoftDeleteOrderParams) (database.Order, error) {
	o, err := m.find(arg.ID, arg.RestaurantID)
	if err != nil || o.DeletedAt.Valid {
		return database.Order{}, pgx.ErrNoRows
	}
	o.DeletedAt = pgtype.Timestamptz{Time: m.clock, Valid: true}
	o.LastModifiedBy = arg.LastModifiedBy
	o.UpdatedAt = m.clock
	return *o, nil
}

func (m *memStore) ReassignOrderTable(ctx context.Context, arg database.ReassignOrderTableParams) (database.Order, error) {
	o, err := m.find(arg.ID, arg.RestaurantID)
	if err != nil || o.DeletedAt.Valid || !IsActive(o.Status) || o.TableID != arg.ExpectedTableID {
		return database.Order{}, pgx.ErrNoRows
	}
	for _, other := range m.orders {
		if other.ID != o.ID && other.TableID == arg.TableID && !other.DeletedAt.Valid && IsActive(other.Status) {
			return database.Order{}, pgx.ErrNoRows
		}
	}
	m.locks = append(m.locks, "reassign")
	o.RoomID = arg.RoomID
	o.TableID = arg.TableID
	o.TableNumber = arg.TableNumber
	o.LastModifiedBy = arg.LastModifiedBy
	o.UpdatedAt = m.clock
	return *o, nil
}

func (m *memStore) UpdateOrderTotal(ctx context.Context, arg database.UpdateOrderTotalParams) (database.Order, error) {
	o, ok := m.orders[arg.ID]
	if !ok {
		return database.Order{}, pgx.ErrNoRows
	}
	sum := decimal.Zero
	for _, it := range m.items {
		if it.OrderID == arg.ID {
			sum = sum.Add(numericToDecimal(it.Subtotal))
		}
	}
	o.TotalAmount = decimalToNumeric(sum)
	o.LastModifiedBy = arg.LastModifiedBy
	o.UpdatedAt = m.clock
	return *o, nil
}

func (m *memStore) ClearTableFromOrders(ctx context.Context, tableID pgtype.UUID) ([]database.Order, error) {
	var out []database.Order
	for _, id := range m.orderSeq {
		o := m.orders[id]
		if o.TableID == tableID {
			o.TableID = pgtype.UUID{}
			o.UpdatedAt = m.clock
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memStore) NextReceiptNumber(ctx context.Context, restaurantID uuid.UUID) (int32, error) {
	m.receipts[restaurantID]++
	return m.receipts[restaurantID], nil
}

// --- items ---

func (m *memStore) CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error) {
	it := database.OrderItem{
		ID:           uuid.New(),
		OrderID:      arg.OrderID,
		ProductID:    arg.ProductID,
		ProductName:  arg.ProductName,
		VariantID:    arg.VariantID,
		VariantTitle: arg.VariantTitle,
		Quantity:     arg.Quantity,
		UnitPrice:    arg.UnitPrice,
		Subtotal:     arg.Subtotal,
		Notes:        arg.Notes,
		CreatedAt:    m.clock,
	}
	m.items = append(m.items, it)
	return it, nil
}

func (m *memStore) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error) {
	var out []database.OrderItem
	for _, it := range m.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memStore) ListOrderItemsByOrders(ctx context.Context, orderIds []uuid.UUID) ([]database.OrderItem, error) {
	want := map[uuid.UUID]bool{}
	for _, id := range orderIds {
		want[id] = true
	}
	var out []database.OrderItem
	for _, it := range m.items {
		if want[it.OrderID] {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memStore) MarkOrderItemsPrepared(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var n int64
	for i := range m.items {
		if m.items[i].OrderID == orderID && !m.items[i].Prepared {
			m.items[i].Prepared = true
			n++
		}
	}
	return n, nil
}

// --- floor ---

func (m *memStore) CreateRoom(ctx context.Context, arg database.CreateRoomParams) (database.Room, error) {
	r := database.Room{ID: uuid.New(), RestaurantID: arg.RestaurantID, Name: arg.Name, SortOrder: arg.SortOrder, CreatedAt: m.clock}
	m.rooms[r.ID] = r
	return r, nil
}

func (m *memStore) GetRoom(ctx context.Context, arg database.GetRoomParams) (database.Room, error) {
	r, ok := m.rooms[arg.ID]
	if !ok || r.RestaurantID != arg.RestaurantID {
		return database.Room{}, pgx.ErrNoRows
	}
	return r, nil
}

func (m *memStore) ListRooms(ctx context.Context, restaurantID uuid.UUID) ([]database.Room, error) {
	var out []database.Room
	for _, r := range m.rooms {
		if r.RestaurantID == restaurantID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (m *memStore) CreateTable(ctx context.Context, arg database.CreateTableParams) (database.DiningTable, error) {
	for _, t := range m.tables {
		if t.RestaurantID == arg.RestaurantID && t.TableNumber == arg.TableNumber && t.IsActive {
			return database.DiningTable{}, &pgconn.PgError{Code: "23505", ConstraintName: "dining_tables_restaurant_number_active_key"}
		}
	}
	t := database.DiningTable{
		ID:           uuid.New(),
		RestaurantID: arg.RestaurantID,
		RoomID:       arg.RoomID,
		TableNumber:  arg.TableNumber,
		Seats:        arg.Seats,
		IsActive:     true,
		CreatedAt:    m.clock,
	}
	m.tables[t.ID] = t
	m.tableSeq = append(m.tableSeq, t.ID)
	return t, nil
}

func (m *memStore) GetTable(ctx context.Context, arg database.GetTableParams) (database.DiningTable, error) {
	t, ok := m.tables[arg.ID]
	if !ok || t.RestaurantID != arg.RestaurantID || !t.IsActive {
		return database.DiningTable{}, pgx.ErrNoRows
	}
	return t, nil
}

func (m *memStore) GetTableForUpdate(ctx context.Context, arg database.GetTableForUpdateParams) (database.DiningTable, error) {
	t, err := m.GetTable(ctx, database.GetTableParams{ID: arg.ID, RestaurantID: arg.RestaurantID})
	if err != nil {
		return database.DiningTable{}, err
	}
	m.locks = append(m.locks, "table:"+t.ID.String())
	return t, nil
}

func (m *memStore) ListTables(ctx context.Context, restaurantID uuid.UUID) ([]database.ListTablesRow, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []database.ListTablesRow
	for _, id := range m.tableSeq {
		t, ok := m.tables[id]
		if !ok || t.RestaurantID != restaurantID || !t.IsActive {
			continue
		}
		out = append(out, database.ListTablesRow{
			ID:          t.ID,
			RoomID:      t.RoomID,
			RoomName:    m.rooms[t.RoomID].Name,
			TableNumber: t.TableNumber,
			Seats:       t.Seats,
		})
	}
	return out, nil
}

func (m *memStore) DeleteTable(ctx context.Context, arg database.DeleteTableParams) (int64, error) {
	t, ok := m.tables[arg.ID]
	if !ok || t.RestaurantID != arg.RestaurantID {
		return 0, nil
	}
	delete(m.tables, arg.ID)
	return 1, nil
}

// --- catalog ---

func (m *memStore) GetProductSnapshot(ctx context.Context, arg database.GetProductSnapshotParams) (database.GetProductSnapshotRow, error) {
	p, ok := m.products[arg.ID]
	if !ok || p.restaurantID != arg.RestaurantID {
		return database.GetProductSnapshotRow{}, pgx.ErrNoRows
	}
	return p.row, nil
}

func (m *memStore) GetVariantSnapshot(ctx context.Context, id uuid.UUID) (database.GetVariantSnapshotRow, error) {
	v, ok := m.variants[id]
	if !ok {
		return database.GetVariantSnapshotRow{}, pgx.ErrNoRows
	}
	return v, nil
}

// --- history ---

func (m *memStore) AppendTimelineEvent(ctx context.Context, arg database.AppendTimelineEventParams) (database.OrderTimelineEvent, error) {
	if m.timelineErr != nil {
		return database.OrderTimelineEvent{}, m.timelineErr
	}
	ev := database.OrderTimelineEvent{
		ID:              int64(len(m.events) + 1),
		OrderID:         arg.OrderID,
		RestaurantID:    arg.RestaurantID,
		Action:          arg.Action,
		EventSource:     arg.EventSource,
		OperatorType:    arg.OperatorType,
		OperatorStaffID: arg.OperatorStaffID,
		OperatorName:    arg.OperatorName,
		PreviousStatus:  arg.PreviousStatus,
		NewStatus:       arg.NewStatus,
		Payload:         arg.Payload,
		Expandable:      arg.Expandable,
		CreatedAt:       m.clock,
	}
	m.events = append(m.events, ev)
	return ev, nil
}

func (m *memStore) AppendTableChange(ctx context.Context, arg database.AppendTableChangeParams) (database.TableChangeLog, error) {
	if m.changeErr != nil {
		return database.TableChangeLog{}, m.changeErr
	}
	c := database.TableChangeLog{
		ID:               int64(len(m.changes) + 1),
		OrderID:          arg.OrderID,
		RestaurantID:     arg.RestaurantID,
		OldRoomID:        arg.OldRoomID,
		OldRoomName:      arg.OldRoomName,
		OldTableID:       arg.OldTableID,
		OldTableNumber:   arg.OldTableNumber,
		NewRoomID:        arg.NewRoomID,
		NewRoomName:      arg.NewRoomName,
		NewTableID:       arg.NewTableID,
		NewTableNumber:   arg.NewTableNumber,
		ChangedByStaffID: arg.ChangedByStaffID,
		ChangedByName:    arg.ChangedByName,
		CreatedAt:        m.clock,
	}
	m.changes = append(m.changes, c)
	return c, nil
}

func (m *memStore) ListTimelineEventsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderTimelineEvent, error) {
	var out []database.OrderTimelineEvent
	for _, ev := range m.events {
		if ev.OrderID == orderID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *memStore) ListTableChangesByOrder(ctx context.Context, orderID uuid.UUID) ([]database.TableChangeLog, error) {
	var out []database.TableChangeLog
	for _, c := range m.changes {
		if c.OrderID == orderID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) ListTableChanges(ctx context.Context, arg database.ListTableChangesParams) ([]database.TableChangeLog, error) {
	var out []database.TableChangeLog
	for i := len(m.changes) - 1; i >= 0; i-- {
		if m.changes[i].RestaurantID == arg.RestaurantID {
			out = append(out, m.changes[i])
		}
	}
	if int(arg.Offset) >= len(out) {
		return nil, nil
	}
	out = out[arg.Offset:]
	if int(arg.Limit) < len(out) {
		out = out[:arg.Limit]
	}
	return out, nil
}

// --- Test helpers ---

func makeNumeric(val string) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(val)
	return n
}

func numericEquals(n pgtype.Numeric, expected string) bool {
	d := numericToDecimal(n)
	exp := numericToDecimal(makeNumeric(expected))
	return d.Equal(exp)
}

// fixture is a restaurant with two rooms, three tables and a small menu.
type fixture struct {
	store    *memStore
	db       *mockDB
	tx       *mockTx
	metrics  *metrics.Metrics
	logs     *observer.ObservedLogs
	timeline *Timeline
	orders   *OrderService
	floor    *FloorService
	reassign *ReassignService

	rid           uuid.UUID
	sala, terrace database.Room
	t1, t2, t3    database.DiningTable
	spritz        uuid.UUID // 5.00
	pizza         uuid.UUID // 7.50
	pizzaLarge    uuid.UUID // variant of pizza, 9.00
	staff         Actor
	owner         Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := newMemStore()
	tx := &mockTx{}
	db := &mockDB{tx: tx}
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg, reg)
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	timeline := NewTimeline(db, func(database.DBTX) TimelineStore { return store }, log, m)
	orders := NewOrderService(db, func(database.DBTX) OrderStore { return store }, NewStoreCatalog(store), timeline, m)
	floor := NewFloorService(db, func(database.DBTX) FloorStore { return store }, timeline, m)
	floor.now = func() time.Time { return store.clock }
	reassign := NewReassignService(db, func(database.DBTX) ReassignStore { return store }, floor, timeline, m)

	f := &fixture{
		store: store, db: db, tx: tx, metrics: m, logs: logs, timeline: timeline,
		orders: orders, floor: floor, reassign: reassign,
		rid:   uuid.New(),
		staff: StaffActor(uuid.New(), "Giulia").From("pos"),
		owner: OwnerActor("Marco"),
	}

	var err error
	f.sala, _ = store.CreateRoom(ctx, database.CreateRoomParams{RestaurantID: f.rid, Name: "Sala", SortOrder: 1})
	f.terrace, _ = store.CreateRoom(ctx, database.CreateRoomParams{RestaurantID: f.rid, Name: "Terrazza", SortOrder: 2})
	if f.t1, err = store.CreateTable(ctx, database.CreateTableParams{RestaurantID: f.rid, RoomID: f.sala.ID, TableNumber: 1, Seats: 4}); err != nil {
		t.Fatal(err)
	}
	f.t2, _ = store.CreateTable(ctx, database.CreateTableParams{RestaurantID: f.rid, RoomID: f.sala.ID, TableNumber: 2, Seats: 2})
	f.t3, _ = store.CreateTable(ctx, database.CreateTableParams{RestaurantID: f.rid, RoomID: f.terrace.ID, TableNumber: 7, Seats: 6})

	f.spritz = uuid.New()
	store.products[f.spritz] = productRow{f.rid, database.GetProductSnapshotRow{ID: f.spritz, Name: "Spritz", Price: makeNumeric("5.00")}}
	f.pizza = uuid.New()
	store.products[f.pizza] = productRow{f.rid, database.GetProductSnapshotRow{ID: f.pizza, Name: "Margherita", Price: makeNumeric("7.50")}}
	f.pizzaLarge = uuid.New()
	store.variants[f.pizzaLarge] = database.GetVariantSnapshotRow{ID: f.pizzaLarge, ProductID: f.pizza, Title: "Large", Price: makeNumeric("9.00")}

	return f
}

// openOrder creates an order at table with the given items.
func (f *fixture) openOrder(t *testing.T, table database.DiningTable, items ...ItemRequest) database.Order {
	t.Helper()
	detail, err := f.orders.CreateOrder(context.Background(), CreateOrderRequest{
		RestaurantID: f.rid,
		TableID:      table.ID,
		Items:        items,
	}, f.staff)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return detail.Order
}

func (f *fixture) order(id uuid.UUID) database.Order {
	return *f.store.orders[id]
}

func (f *fixture) eventsFor(id uuid.UUID) []database.OrderTimelineEvent {
	evs, _ := f.store.ListTimelineEventsByOrder(context.Background(), id)
	return evs
}

func assertKind(t *testing.T, err error, want ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := KindOf(err); got != want {
		t.Fatalf("error kind: got %s, want %s (err: %v)", got, want, err)
	}
}

var errBoom = errors.New("connection refused")
