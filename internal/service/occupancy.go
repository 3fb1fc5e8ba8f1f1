package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/kiwari-pos/dinein/internal/database"
	"github.com/shopspring/decimal"
)

// TableStatus is the derived state of one physical table.
type TableStatus string

const (
	TableClosed  TableStatus = "closed"
	TableOpen    TableStatus = "open"
	TablePending TableStatus = "pending"
)

// TimeMarker tells how long a table has been in its state. A pending table
// shows a static wait; an open table shows a live clock clients keep
// ticking from Since.
type TimeMarker struct {
	Live    bool      `json:"live"`
	Since   time.Time `json:"since"`
	Minutes int       `json:"minutes"`
}

// MergedItem is one (product, variant) line summed across a table's orders.
type MergedItem struct {
	ProductName  string `json:"product_name"`
	VariantTitle string `json:"variant_title,omitempty"`
	Quantity     int32  `json:"quantity"`
}

// TableState is the resolved occupancy of a table.
type TableState struct {
	TableID         uuid.UUID       `json:"table_id"`
	RoomID          uuid.UUID       `json:"room_id"`
	RoomName        string          `json:"room_name"`
	TableNumber     int32           `json:"table_number"`
	Seats           int32           `json:"seats"`
	Status          TableStatus     `json:"status"`
	OrderIDs        []uuid.UUID     `json:"order_ids"`
	Revenue         decimal.Decimal `json:"revenue"`
	ItemCount       int32           `json:"item_count"`
	Items           []MergedItem    `json:"items"`
	Marker          *TimeMarker     `json:"marker,omitempty"`
	HasPendingItems bool            `json:"has_pending_items"`
}

// OrphanOrder is an active order whose table no longer resolves.
// TableNumber is the last known number, zero when it never had one.
type OrphanOrder struct {
	OrderID     uuid.UUID            `json:"order_id"`
	Status      database.OrderStatus `json:"status"`
	TableNumber int32                `json:"table_number,omitempty"`
	Total       decimal.Decimal      `json:"total"`
	CreatedAt   time.Time            `json:"created_at"`
}

// Snapshot is the occupancy of a whole floor at ResolvedAt.
type Snapshot struct {
	Tables     []TableState  `json:"tables"`
	Orphans    []OrphanOrder `json:"orphans"`
	ResolvedAt time.Time     `json:"resolved_at"`
}

// Occupied returns the ids of tables that are not closed.
func (s Snapshot) Occupied() []uuid.UUID {
	ids := []uuid.UUID{}
	for _, t := range s.Tables {
		if t.Status != TableClosed {
			ids = append(ids, t.TableID)
		}
	}
	return ids
}

// Table looks up the state of id.
func (s Snapshot) Table(id uuid.UUID) (TableState, bool) {
	for _, t := range s.Tables {
		if t.TableID == id {
			return t, true
		}
	}
	return TableState{}, false
}

// Resolve derives per-table occupancy from the active orders. It never
// reads or writes anything; soft-deleted and terminal orders are dropped
// even if the caller passes them in.
func Resolve(tables []database.ListTablesRow, orders []database.Order, items []database.OrderItem, now time.Time) Snapshot {
	known := make(map[uuid.UUID]int, len(tables))
	for i, t := range tables {
		known[t.ID] = i
	}

	byTable := make(map[uuid.UUID][]database.Order)
	orderTable := make(map[uuid.UUID]uuid.UUID)
	snap := Snapshot{
		Tables:     make([]TableState, 0, len(tables)),
		Orphans:    []OrphanOrder{},
		ResolvedAt: now,
	}

	for _, o := range orders {
		if o.DeletedAt.Valid || !IsActive(o.Status) {
			continue
		}
		tid := uuidOrNil(o.TableID)
		if _, ok := known[tid]; !o.TableID.Valid || !ok {
			var num int32
			if o.TableNumber.Valid {
				num = o.TableNumber.Int32
			}
			snap.Orphans = append(snap.Orphans, OrphanOrder{
				OrderID:     o.ID,
				Status:      o.Status,
				TableNumber: num,
				Total:       numericToDecimal(o.TotalAmount),
				CreatedAt:   o.CreatedAt,
			})
			continue
		}
		byTable[tid] = append(byTable[tid], o)
		orderTable[o.ID] = tid
	}

	itemsByTable := make(map[uuid.UUID][]database.OrderItem)
	for _, it := range items {
		if tid, ok := orderTable[it.OrderID]; ok {
			itemsByTable[tid] = append(itemsByTable[tid], it)
		}
	}

	for _, t := range tables {
		state := TableState{
			TableID:     t.ID,
			RoomID:      t.RoomID,
			RoomName:    t.RoomName,
			TableNumber: t.TableNumber,
			Seats:       t.Seats,
			Status:      TableClosed,
			OrderIDs:    []uuid.UUID{},
			Revenue:     decimal.Zero,
			Items:       []MergedItem{},
		}
		matching := byTable[t.ID]
		if len(matching) > 0 {
			resolveTable(&state, matching, itemsByTable[t.ID], now)
		}
		snap.Tables = append(snap.Tables, state)
	}

	return snap
}

func resolveTable(state *TableState, orders []database.Order, items []database.OrderItem, now time.Time) {
	var oldestPending, earliestOpen time.Time
	for _, o := range orders {
		state.OrderIDs = append(state.OrderIDs, o.ID)
		state.Revenue = state.Revenue.Add(numericToDecimal(o.TotalAmount))

		if o.Status == database.OrderStatusPending {
			if oldestPending.IsZero() || o.CreatedAt.Before(oldestPending) {
				oldestPending = o.CreatedAt
			}
			continue
		}
		anchor := o.CreatedAt
		if o.OpenedAt.Valid {
			anchor = o.OpenedAt.Time
		}
		if earliestOpen.IsZero() || anchor.Before(earliestOpen) {
			earliestOpen = anchor
		}
	}

	// A waiting order outranks a table that is already being served.
	switch {
	case !oldestPending.IsZero():
		state.Status = TablePending
		state.Marker = &TimeMarker{Since: oldestPending, Minutes: minutesSince(oldestPending, now)}
	default:
		state.Status = TableOpen
		state.Marker = &TimeMarker{Live: true, Since: earliestOpen, Minutes: minutesSince(earliestOpen, now)}
	}

	type key struct{ name, variant string }
	index := make(map[key]int)
	for _, it := range items {
		state.ItemCount += it.Quantity
		if !it.Prepared {
			state.HasPendingItems = true
		}
		k := key{it.ProductName, it.VariantTitle.String}
		if i, ok := index[k]; ok {
			state.Items[i].Quantity += it.Quantity
			continue
		}
		index[k] = len(state.Items)
		state.Items = append(state.Items, MergedItem{
			ProductName:  it.ProductName,
			VariantTitle: it.VariantTitle.String,
			Quantity:     it.Quantity,
		})
	}
}

func minutesSince(t, now time.Time) int {
	d := now.Sub(t)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}
