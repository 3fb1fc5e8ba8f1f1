package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiwari-pos/dinein/internal/database"
	"github.com/kiwari-pos/dinein/internal/service"
	"go.uber.org/zap"
)

// TableChangeLister reads the restaurant-wide table change log.
// Satisfied by *service.Timeline.
type TableChangeLister interface {
	ListTableChanges(ctx context.Context, restaurantID uuid.UUID, limit, offset int32) ([]database.TableChangeLog, error)
}

// HistoryHandler serves the audit read endpoints used by analytics.
type HistoryHandler struct {
	changes TableChangeLister
	log     *zap.Logger
}

func NewHistoryHandler(changes TableChangeLister, log *zap.Logger) *HistoryHandler {
	return &HistoryHandler{changes: changes, log: log}
}

// RegisterRoutes registers history endpoints on a restaurant-scoped router.
func (h *HistoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/table-changes", h.ListTableChanges)
}

type timelineEventResponse struct {
	ID              int64           `json:"id"`
	Action          string          `json:"action"`
	EventSource     string          `json:"event_source"`
	OperatorType    string          `json:"operator_type"`
	OperatorStaffID *uuid.UUID      `json:"operator_staff_id"`
	OperatorName    string          `json:"operator_name"`
	PreviousStatus  *string         `json:"previous_status"`
	NewStatus       *string         `json:"new_status"`
	Payload         json.RawMessage `json:"payload"`
	Expandable      bool            `json:"expandable"`
	CreatedAt       time.Time       `json:"created_at"`
}

type tableChangeResponse struct {
	ID               int64      `json:"id"`
	OrderID          uuid.UUID  `json:"order_id"`
	OldRoomID        *uuid.UUID `json:"old_room_id"`
	OldRoomName      *string    `json:"old_room_name"`
	OldTableID       *uuid.UUID `json:"old_table_id"`
	OldTableNumber   *int32     `json:"old_table_number"`
	NewRoomID        uuid.UUID  `json:"new_room_id"`
	NewRoomName      string     `json:"new_room_name"`
	NewTableID       uuid.UUID  `json:"new_table_id"`
	NewTableNumber   int32      `json:"new_table_number"`
	ChangedByStaffID *uuid.UUID `json:"changed_by_staff_id"`
	ChangedByName    string     `json:"changed_by_name"`
	CreatedAt        time.Time  `json:"created_at"`
}

type timelineResponse struct {
	Events       []timelineEventResponse `json:"events"`
	TableChanges []tableChangeResponse   `json:"table_changes"`
}

// ListTableChanges handles GET /restaurants/{rid}/table-changes.
func (h *HistoryHandler) ListTableChanges(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := parseRestaurantID(w, r)
	if !ok {
		return
	}

	// Parse pagination; the service clamps the limit.
	var limit, offset int32
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = int32(v)
		}
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = int32(v)
		}
	}

	entries, err := h.changes.ListTableChanges(r.Context(), restaurantID, limit, offset)
	if err != nil {
		writeServiceError(w, h.log, "list table changes", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"table_changes": toTableChangeResponses(entries),
		"offset":        offset,
	})
}

func statusPtr(s database.NullOrderStatus) *string {
	if !s.Valid {
		return nil
	}
	v := string(s.OrderStatus)
	return &v
}

func toTimelineEventResponse(ev database.OrderTimelineEvent) timelineEventResponse {
	payload := json.RawMessage(ev.Payload)
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	return timelineEventResponse{
		ID:              ev.ID,
		Action:          ev.Action,
		EventSource:     ev.EventSource,
		OperatorType:    ev.OperatorType,
		OperatorStaffID: uuidPtr(ev.OperatorStaffID),
		OperatorName:    ev.OperatorName,
		PreviousStatus:  statusPtr(ev.PreviousStatus),
		NewStatus:       statusPtr(ev.NewStatus),
		Payload:         payload,
		Expandable:      ev.Expandable,
		CreatedAt:       ev.CreatedAt,
	}
}

func toTableChangeResponses(entries []database.TableChangeLog) []tableChangeResponse {
	out := make([]tableChangeResponse, len(entries))
	for i, c := range entries {
		out[i] = tableChangeResponse{
			ID:               c.ID,
			OrderID:          c.OrderID,
			OldRoomID:        uuidPtr(c.OldRoomID),
			OldRoomName:      textPtr(c.OldRoomName),
			OldTableID:       uuidPtr(c.OldTableID),
			OldTableNumber:   int4Ptr(c.OldTableNumber),
			NewRoomID:        c.NewRoomID,
			NewRoomName:      c.NewRoomName,
			NewTableID:       c.NewTableID,
			NewTableNumber:   c.NewTableNumber,
			ChangedByStaffID: uuidPtr(c.ChangedByStaffID),
			ChangedByName:    c.ChangedByName,
			CreatedAt:        c.CreatedAt,
		}
	}
	return out
}

func toTimelineResponse(tl *service.OrderTimeline) timelineResponse {
	resp := timelineResponse{
		Events:       make([]timelineEventResponse, len(tl.Events)),
		TableChanges: toTableChangeResponses(tl.TableChanges),
	}
	for i, ev := range tl.Events {
		resp.Events[i] = toTimelineEventResponse(ev)
	}
	return resp
}
