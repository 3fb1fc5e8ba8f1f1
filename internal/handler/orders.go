package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kiwari-pos/dinein/internal/database"
	"github.com/kiwari-pos/dinein/internal/middleware"
	"github.com/kiwari-pos/dinein/internal/service"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest, actor service.Actor) (*service.OrderDetail, error)
	AddItems(ctx context.Context, restaurantID, orderID uuid.UUID, items []service.ItemRequest, actor service.Actor) (*service.OrderDetail, error)
	GetOrder(ctx context.Context, restaurantID, orderID uuid.UUID) (*service.OrderDetail, error)
	GetTimeline(ctx context.Context, restaurantID, orderID uuid.UUID) (*service.OrderTimeline, error)
	ConfirmOrder(ctx context.Context, restaurantID, orderID uuid.UUID, actor service.Actor) (*database.Order, error)
	GeneratePreconto(ctx context.Context, restaurantID, orderID uuid.UUID, actor service.Actor) (*service.Bill, error)
	GenerateScontrino(ctx context.Context, restaurantID, orderID uuid.UUID, actor service.Actor) (*service.Bill, error)
	CancelOrder(ctx context.Context, restaurantID, orderID uuid.UUID, actor service.Actor) (*database.Order, error)
	DeleteOrder(ctx context.Context, restaurantID, orderID uuid.UUID, actor service.Actor) error
	DeleteOrders(ctx context.Context, restaurantID uuid.UUID, orderIDs []uuid.UUID, actor service.Actor) ([]service.DeleteResult, error)
}

// TableChanger moves orders between tables.
// Satisfied by *service.ReassignService.
type TableChanger interface {
	ChangeTable(ctx context.Context, restaurantID, orderID, newRoomID, newTableID uuid.UUID, actor service.Actor) (*database.Order, error)
}

// ActiveOrderLister lists active orders split by table resolution.
// Satisfied by *service.FloorService.
type ActiveOrderLister interface {
	GetActiveOrders(ctx context.Context, restaurantID uuid.UUID) (*service.ActiveOrders, error)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc    OrderServicer
	tables TableChanger
	active ActiveOrderLister
	log    *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer, tables TableChanger, active ActiveOrderLister, log *zap.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, tables: tables, active: active, log: log}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted inside a restaurant-scoped subrouter: /restaurants/{rid}/orders
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/active", h.Active)
	r.Post("/bulk-delete", h.BulkDelete)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/items", h.AddItems)
	r.Post("/{id}/confirm", h.Confirm)
	r.Post("/{id}/preconto", h.Preconto)
	r.Post("/{id}/scontrino", h.Scontrino)
	r.Post("/{id}/cancel", h.Cancel)
	r.Post("/{id}/table", h.ChangeTable)
	r.Get("/{id}/timeline", h.Timeline)
}

// --- Request / Response types ---

type createOrderRequest struct {
	RoomID  string             `json:"room_id"`
	TableID string             `json:"table_id"`
	Notes   string             `json:"notes"`
	Items   []orderItemRequest `json:"items"`
}

type orderItemRequest struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Quantity  int32  `json:"quantity"`
	Notes     string `json:"notes"`
}

type addItemsRequest struct {
	Items []orderItemRequest `json:"items"`
}

type bulkDeleteRequest struct {
	OrderIDs []string `json:"order_ids"`
}

type changeTableRequest struct {
	RoomID  string `json:"room_id"`
	TableID string `json:"table_id"`
}

type orderResponse struct {
	ID             uuid.UUID           `json:"id"`
	RestaurantID   uuid.UUID           `json:"restaurant_id"`
	RoomID         *uuid.UUID          `json:"room_id"`
	TableID        *uuid.UUID          `json:"table_id"`
	TableNumber    *int32              `json:"table_number"`
	Status         string              `json:"status"`
	TotalAmount    string              `json:"total_amount"`
	ReceiptNumber  *int32              `json:"receipt_number"`
	Notes          *string             `json:"notes"`
	CreatedAt      time.Time           `json:"created_at"`
	OpenedAt       *time.Time          `json:"opened_at"`
	CompletedAt    *time.Time          `json:"completed_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	DeletedAt      *time.Time          `json:"deleted_at,omitempty"`
	LastModifiedBy *uuid.UUID          `json:"last_modified_by"`
	Items          []orderItemResponse `json:"items,omitempty"`
}

type orderItemResponse struct {
	ID           uuid.UUID  `json:"id"`
	ProductID    uuid.UUID  `json:"product_id"`
	ProductName  string     `json:"product_name"`
	VariantID    *uuid.UUID `json:"variant_id"`
	VariantTitle *string    `json:"variant_title"`
	Quantity     int32      `json:"quantity"`
	UnitPrice    string     `json:"unit_price"`
	Subtotal     string     `json:"subtotal"`
	Notes        *string    `json:"notes"`
	Prepared     bool       `json:"prepared"`
}

type billResponse struct {
	Order         orderResponse       `json:"order"`
	Items         []orderItemResponse `json:"items"`
	Total         string              `json:"total"`
	ReceiptNumber *int32              `json:"receipt_number"`
}

type activeOrdersResponse struct {
	Assigned []orderResponse `json:"assigned"`
	Orphaned []orderResponse `json:"orphaned"`
}

type deleteResultResponse struct {
	OrderID uuid.UUID         `json:"order_id"`
	OK      bool              `json:"ok"`
	Error   service.ErrorKind `json:"error,omitempty"`
}

// --- Handlers ---

// Create handles POST /restaurants/{rid}/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	restaurantID, actor, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, "invalid request body")
		return
	}

	roomID, err := parseOptionalUUID(req.RoomID)
	if err != nil {
		writeValidation(w, "invalid room_id")
		return
	}
	tableID, err := parseOptionalUUID(req.TableID)
	if err != nil {
		writeValidation(w, "invalid table_id")
		return
	}
	items, ok := parseItems(w, req.Items)
	if !ok {
		return
	}

	detail, err := h.svc.CreateOrder(r.Context(), service.CreateOrderRequest{
		RestaurantID: restaurantID,
		RoomID:       roomID,
		TableID:      tableID,
		Notes:        req.Notes,
		Items:        items,
	}, actor)
	if err != nil {
		writeServiceError(w, h.log, "create order", err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderDetailResponse(detail))
}

// Get handles GET /restaurants/{rid}/orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	restaurantID, orderID, ok := h.orderScope(w, r)
	if !ok {
		return
	}

	detail, err := h.svc.GetOrder(r.Context(), restaurantID, orderID)
	if err != nil {
		writeServiceError(w, h.log, "get order", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDetailResponse(detail))
}

// AddItems handles POST /restaurants/{rid}/orders/{id}/items.
func (h *OrderHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	restaurantID, orderID, actor, ok := h.orderActorScope(w, r)
	if !ok {
		return
	}

	var req addItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	if len(req.Items) == 0 {
		writeValidation(w, "items are required")
		return
	}
	items, ok := parseItems(w, req.Items)
	if !ok {
		return
	}

	detail, err := h.svc.AddItems(r.Context(), restaurantID, orderID, items, actor)
	if err != nil {
		writeServiceError(w, h.log, "add items", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDetailResponse(detail))
}

// Confirm handles POST /restaurants/{rid}/orders/{id}/confirm.
func (h *OrderHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	restaurantID, orderID, actor, ok := h.orderActorScope(w, r)
	if !ok {
		return
	}

	order, err := h.svc.ConfirmOrder(r.Context(), restaurantID, orderID, actor)
	if err != nil {
		writeServiceError(w, h.log, "confirm order", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*order))
}

// Preconto handles POST /restaurants/{rid}/orders/{id}/preconto.
func (h *OrderHandler) Preconto(w http.ResponseWriter, r *http.Request) {
	restaurantID, orderID, actor, ok := h.orderActorScope(w, r)
	if !ok {
		return
	}

	bill, err := h.svc.GeneratePreconto(r.Context(), restaurantID, orderID, actor)
	if err != nil {
		writeServiceError(w, h.log, "generate preconto", err)
		return
	}
	writeJSON(w, http.StatusOK, toBillResponse(bill))
}

// Scontrino handles POST /restaurants/{rid}/orders/{id}/scontrino.
func (h *OrderHandler) Scontrino(w http.ResponseWriter, r *http.Request) {
	restaurantID, orderID, actor, ok := h.orderActorScope(w, r)
	if !ok {
		return
	}

	bill, err := h.svc.GenerateScontrino(r.Context(), restaurantID, orderID, actor)
	if err != nil {
		writeServiceError(w, h.log, "generate scontrino", err)
		return
	}
	writeJSON(w, http.StatusOK, toBillResponse(bill))
}

// Cancel handles POST /restaurants/{rid}/orders/{id}/cancel.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	restaurantID, orderID, actor, ok := h.orderActorScope(w, r)
	if !ok {
		return
	}

	order, err := h.svc.CancelOrder(r.Context(), restaurantID, orderID, actor)
	if err != nil {
		writeServiceError(w, h.log, "cancel order", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*order))
}

// Delete handles DELETE /restaurants/{rid}/orders/{id}.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	restaurantID, orderID, actor, ok := h.orderActorScope(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteOrder(r.Context(), restaurantID, orderID, actor); err != nil {
		writeServiceError(w, h.log, "delete order", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkDelete handles POST /restaurants/{rid}/orders/bulk-delete. Each id
// succeeds or fails on its own; the response lists every outcome.
func (h *OrderHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	restaurantID, actor, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	ids := make([]uuid.UUID, len(req.OrderIDs))
	for i, s := range req.OrderIDs {
		id, err := uuid.Parse(s)
		if err != nil {
			writeValidation(w, fmt.Sprintf("order_ids[%d]: invalid id", i))
			return
		}
		ids[i] = id
	}

	results, err := h.svc.DeleteOrders(r.Context(), restaurantID, ids, actor)
	if err != nil {
		writeServiceError(w, h.log, "bulk delete orders", err)
		return
	}

	resp := make([]deleteResultResponse, len(results))
	for i, res := range results {
		resp[i] = deleteResultResponse{OrderID: res.OrderID, OK: res.Err == nil, Error: service.KindOf(res.Err)}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": resp})
}

// ChangeTable handles POST /restaurants/{rid}/orders/{id}/table.
func (h *OrderHandler) ChangeTable(w http.ResponseWriter, r *http.Request) {
	restaurantID, orderID, actor, ok := h.orderActorScope(w, r)
	if !ok {
		return
	}

	var req changeTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		writeValidation(w, "invalid room_id")
		return
	}
	tableID, err := uuid.Parse(req.TableID)
	if err != nil {
		writeValidation(w, "invalid table_id")
		return
	}

	order, err := h.tables.ChangeTable(r.Context(), restaurantID, orderID, roomID, tableID, actor)
	if err != nil {
		writeServiceError(w, h.log, "change table", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*order))
}

// Timeline handles GET /restaurants/{rid}/orders/{id}/timeline.
func (h *OrderHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	restaurantID, orderID, ok := h.orderScope(w, r)
	if !ok {
		return
	}

	tl, err := h.svc.GetTimeline(r.Context(), restaurantID, orderID)
	if err != nil {
		writeServiceError(w, h.log, "get timeline", err)
		return
	}
	writeJSON(w, http.StatusOK, toTimelineResponse(tl))
}

// Active handles GET /restaurants/{rid}/orders/active.
func (h *OrderHandler) Active(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := parseRestaurantID(w, r)
	if !ok {
		return
	}

	active, err := h.active.GetActiveOrders(r.Context(), restaurantID)
	if err != nil {
		writeServiceError(w, h.log, "list active orders", err)
		return
	}

	resp := activeOrdersResponse{
		Assigned: make([]orderResponse, len(active.Assigned)),
		Orphaned: make([]orderResponse, len(active.Orphaned)),
	}
	for i, o := range active.Assigned {
		resp.Assigned[i] = toOrderResponse(o)
	}
	for i, o := range active.Orphaned {
		resp.Orphaned[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

// scope parses the restaurant id and the acting operator.
func (h *OrderHandler) scope(w http.ResponseWriter, r *http.Request) (uuid.UUID, service.Actor, bool) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "rid"))
	if err != nil {
		writeValidation(w, "invalid restaurant ID")
		return uuid.Nil, service.Actor{}, false
	}
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return uuid.Nil, service.Actor{}, false
	}
	return restaurantID, actor, true
}

func (h *OrderHandler) orderScope(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "rid"))
	if err != nil {
		writeValidation(w, "invalid restaurant ID")
		return uuid.Nil, uuid.Nil, false
	}
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeValidation(w, "invalid order ID")
		return uuid.Nil, uuid.Nil, false
	}
	return restaurantID, orderID, true
}

func (h *OrderHandler) orderActorScope(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, service.Actor, bool) {
	restaurantID, actor, ok := h.scope(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, service.Actor{}, false
	}
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeValidation(w, "invalid order ID")
		return uuid.Nil, uuid.Nil, service.Actor{}, false
	}
	return restaurantID, orderID, actor, true
}

func parseItems(w http.ResponseWriter, in []orderItemRequest) ([]service.ItemRequest, bool) {
	items := make([]service.ItemRequest, len(in))
	for i, item := range in {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			writeValidation(w, formatItemError(i, "product_id is required"))
			return nil, false
		}
		variantID, err := parseOptionalUUID(item.VariantID)
		if err != nil {
			writeValidation(w, formatItemError(i, "invalid variant_id"))
			return nil, false
		}
		if item.Quantity <= 0 {
			writeValidation(w, formatItemError(i, "quantity must be > 0"))
			return nil, false
		}
		items[i] = service.ItemRequest{
			ProductID: productID,
			VariantID: variantID,
			Quantity:  item.Quantity,
			Notes:     item.Notes,
		}
	}
	return items, true
}

func formatItemError(idx int, msg string) string {
	return fmt.Sprintf("items[%d]: %s", idx, msg)
}

// parseOptionalUUID treats an empty string as uuid.Nil.
func parseOptionalUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(s)
}

func numericToString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return "0.00"
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}

func uuidPtr(id pgtype.UUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	u := uuid.UUID(id.Bytes)
	return &u
}

func int4Ptr(n pgtype.Int4) *int32 {
	if !n.Valid {
		return nil
	}
	return &n.Int32
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}

func timePtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	return &ts.Time
}

func toOrderResponse(o database.Order) orderResponse {
	return orderResponse{
		ID:             o.ID,
		RestaurantID:   o.RestaurantID,
		RoomID:         uuidPtr(o.RoomID),
		TableID:        uuidPtr(o.TableID),
		TableNumber:    int4Ptr(o.TableNumber),
		Status:         string(o.Status),
		TotalAmount:    numericToString(o.TotalAmount),
		ReceiptNumber:  int4Ptr(o.ReceiptNumber),
		Notes:          textPtr(o.Notes),
		CreatedAt:      o.CreatedAt,
		OpenedAt:       timePtr(o.OpenedAt),
		CompletedAt:    timePtr(o.CompletedAt),
		UpdatedAt:      o.UpdatedAt,
		DeletedAt:      timePtr(o.DeletedAt),
		LastModifiedBy: uuidPtr(o.LastModifiedBy),
	}
}

func toOrderItemResponse(item database.OrderItem) orderItemResponse {
	return orderItemResponse{
		ID:           item.ID,
		ProductID:    item.ProductID,
		ProductName:  item.ProductName,
		VariantID:    uuidPtr(item.VariantID),
		VariantTitle: textPtr(item.VariantTitle),
		Quantity:     item.Quantity,
		UnitPrice:    numericToString(item.UnitPrice),
		Subtotal:     numericToString(item.Subtotal),
		Notes:        textPtr(item.Notes),
		Prepared:     item.Prepared,
	}
}

func toOrderItemResponses(items []database.OrderItem) []orderItemResponse {
	out := make([]orderItemResponse, len(items))
	for i, item := range items {
		out[i] = toOrderItemResponse(item)
	}
	return out
}

func toOrderDetailResponse(d *service.OrderDetail) orderResponse {
	resp := toOrderResponse(d.Order)
	resp.Items = toOrderItemResponses(d.Items)
	return resp
}

func toBillResponse(b *service.Bill) billResponse {
	resp := billResponse{
		Order: toOrderResponse(b.Order),
		Items: toOrderItemResponses(b.Items),
		Total: b.Total.StringFixed(2),
	}
	if b.ReceiptNumber > 0 {
		n := b.ReceiptNumber
		resp.ReceiptNumber = &n
	}
	return resp
}
