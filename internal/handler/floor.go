package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiwari-pos/dinein/internal/database"
	"github.com/kiwari-pos/dinein/internal/enum"
	"github.com/kiwari-pos/dinein/internal/middleware"
	"github.com/kiwari-pos/dinein/internal/service"
	"go.uber.org/zap"
)

// FloorServicer defines the service methods needed by floor handlers.
// Satisfied by *service.FloorService.
type FloorServicer interface {
	ResolveFloor(ctx context.Context, restaurantID uuid.UUID) (service.Snapshot, error)
	GetOccupiedTables(ctx context.Context, restaurantID uuid.UUID) ([]uuid.UUID, error)
	ListOrphans(ctx context.Context, restaurantID uuid.UUID) ([]database.Order, error)
	ListRooms(ctx context.Context, restaurantID uuid.UUID) ([]database.Room, error)
	CreateRoom(ctx context.Context, restaurantID uuid.UUID, name string, sortOrder int32) (*database.Room, error)
	ListTables(ctx context.Context, restaurantID uuid.UUID) ([]database.ListTablesRow, error)
	CreateTable(ctx context.Context, restaurantID uuid.UUID, req service.CreateTableRequest) (*database.DiningTable, error)
	DeleteTable(ctx context.Context, restaurantID, tableID uuid.UUID, actor service.Actor) ([]database.Order, error)
}

// FloorHandler handles occupancy and floor plan endpoints.
type FloorHandler struct {
	svc FloorServicer
	log *zap.Logger
}

func NewFloorHandler(svc FloorServicer, log *zap.Logger) *FloorHandler {
	return &FloorHandler{svc: svc, log: log}
}

// RegisterRoutes registers floor endpoints on a restaurant-scoped router.
// Floor plan changes are owner-only.
func (h *FloorHandler) RegisterRoutes(r chi.Router) {
	r.Get("/floor", h.Resolve)
	r.Get("/floor/occupied", h.Occupied)
	r.Get("/floor/orphans", h.Orphans)
	r.Get("/rooms", h.ListRooms)
	r.Get("/tables", h.ListTables)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(enum.OperatorOwner))
		r.Post("/rooms", h.CreateRoom)
		r.Post("/tables", h.CreateTable)
		r.Delete("/tables/{tid}", h.DeleteTable)
	})
}

type createRoomRequest struct {
	Name      string `json:"name"`
	SortOrder int32  `json:"sort_order"`
}

type createTableRequest struct {
	RoomID      string `json:"room_id"`
	TableNumber int32  `json:"table_number"`
	Seats       int32  `json:"seats"`
}

type roomResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SortOrder int32     `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

type tableResponse struct {
	ID          uuid.UUID `json:"id"`
	RoomID      uuid.UUID `json:"room_id"`
	RoomName    string    `json:"room_name,omitempty"`
	TableNumber int32     `json:"table_number"`
	Seats       int32     `json:"seats"`
}

// Resolve handles GET /restaurants/{rid}/floor.
func (h *FloorHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := parseRestaurantID(w, r)
	if !ok {
		return
	}
	snap, err := h.svc.ResolveFloor(r.Context(), restaurantID)
	if err != nil {
		writeServiceError(w, h.log, "resolve floor", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Occupied handles GET /restaurants/{rid}/floor/occupied.
func (h *FloorHandler) Occupied(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := parseRestaurantID(w, r)
	if !ok {
		return
	}
	ids, err := h.svc.GetOccupiedTables(r.Context(), restaurantID)
	if err != nil {
		writeServiceError(w, h.log, "occupied tables", err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

// Orphans handles GET /restaurants/{rid}/floor/orphans.
func (h *FloorHandler) Orphans(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := parseRestaurantID(w, r)
	if !ok {
		return
	}
	orders, err := h.svc.ListOrphans(r.Context(), restaurantID)
	if err != nil {
		writeServiceError(w, h.log, "list orphans", err)
		return
	}
	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListRooms handles GET /restaurants/{rid}/rooms.
func (h *FloorHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := parseRestaurantID(w, r)
	if !ok {
		return
	}
	rooms, err := h.svc.ListRooms(r.Context(), restaurantID)
	if err != nil {
		writeServiceError(w, h.log, "list rooms", err)
		return
	}
	resp := make([]roomResponse, len(rooms))
	for i, room := range rooms {
		resp[i] = toRoomResponse(room)
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateRoom handles POST /restaurants/{rid}/rooms.
func (h *FloorHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := parseRestaurantID(w, r)
	if !ok {
		return
	}
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	room, err := h.svc.CreateRoom(r.Context(), restaurantID, req.Name, req.SortOrder)
	if err != nil {
		writeServiceError(w, h.log, "create room", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRoomResponse(*room))
}

// ListTables handles GET /restaurants/{rid}/tables.
func (h *FloorHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := parseRestaurantID(w, r)
	if !ok {
		return
	}
	tables, err := h.svc.ListTables(r.Context(), restaurantID)
	if err != nil {
		writeServiceError(w, h.log, "list tables", err)
		return
	}
	resp := make([]tableResponse, len(tables))
	for i, t := range tables {
		resp[i] = tableResponse{ID: t.ID, RoomID: t.RoomID, RoomName: t.RoomName, TableNumber: t.TableNumber, Seats: t.Seats}
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateTable handles POST /restaurants/{rid}/tables.
func (h *FloorHandler) CreateTable(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := parseRestaurantID(w, r)
	if !ok {
		return
	}
	var req createTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		writeValidation(w, "invalid room_id")
		return
	}
	table, err := h.svc.CreateTable(r.Context(), restaurantID, service.CreateTableRequest{
		RoomID:      roomID,
		TableNumber: req.TableNumber,
		Seats:       req.Seats,
	})
	if err != nil {
		writeServiceError(w, h.log, "create table", err)
		return
	}
	writeJSON(w, http.StatusCreated, tableResponse{
		ID:          table.ID,
		RoomID:      table.RoomID,
		TableNumber: table.TableNumber,
		Seats:       table.Seats,
	})
}

// DeleteTable handles DELETE /restaurants/{rid}/tables/{tid}. The response
// lists the active orders left without a table.
func (h *FloorHandler) DeleteTable(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := parseRestaurantID(w, r)
	if !ok {
		return
	}
	tableID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeValidation(w, "invalid table ID")
		return
	}
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	orphaned, err := h.svc.DeleteTable(r.Context(), restaurantID, tableID, actor)
	if err != nil {
		writeServiceError(w, h.log, "delete table", err)
		return
	}
	resp := make([]orderResponse, len(orphaned))
	for i, o := range orphaned {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"orphaned": resp})
}

func parseRestaurantID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "rid"))
	if err != nil {
		writeValidation(w, "invalid restaurant ID")
		return uuid.Nil, false
	}
	return restaurantID, true
}

func toRoomResponse(r database.Room) roomResponse {
	return roomResponse{ID: r.ID, Name: r.Name, SortOrder: r.SortOrder, CreatedAt: r.CreatedAt}
}
