package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kiwari-pos/dinein/internal/auth"
	"github.com/kiwari-pos/dinein/internal/database"
	"github.com/kiwari-pos/dinein/internal/enum"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthStore defines the database methods needed by auth handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type AuthStore interface {
	GetStaffByEmail(ctx context.Context, email string) (database.StaffMember, error)
	GetRestaurantByOwnerEmail(ctx context.Context, ownerEmail string) (database.Restaurant, error)
	GetRestaurant(ctx context.Context, id uuid.UUID) (database.Restaurant, error)
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	store     AuthStore
	jwtSecret string
	log       *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(store AuthStore, jwtSecret string, log *zap.Logger) *AuthHandler {
	return &AuthHandler{store: store, jwtSecret: jwtSecret, log: log}
}

// RegisterRoutes registers auth endpoints on the given Chi router.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
}

// --- Request / Response types ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	User        userResponse `json:"user"`
}

type userResponse struct {
	ID             *uuid.UUID `json:"id"`
	RestaurantID   uuid.UUID  `json:"restaurant_id"`
	RestaurantName string     `json:"restaurant_name"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
}

// --- Handlers ---

// Login handles email + password authentication. Staff accounts are tried
// first, then restaurant owners.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email and password are required"})
		return
	}

	staff, err := h.store.GetStaffByEmail(r.Context(), req.Email)
	switch {
	case err == nil:
		h.loginStaff(w, r, staff, req.Password)
		return
	case !errors.Is(err, pgx.ErrNoRows):
		h.log.Error("login: get staff", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	restaurant, err := h.store.GetRestaurantByOwnerEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		h.log.Error("login: get restaurant owner", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(restaurant.OwnerPasswordHash), []byte(req.Password)); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	h.respondWithToken(w, uuid.Nil, restaurant, restaurant.OwnerName, restaurant.OwnerEmail, enum.OperatorOwner)
}

func (h *AuthHandler) loginStaff(w http.ResponseWriter, r *http.Request, staff database.StaffMember, password string) {
	if !staff.IsActive {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	restaurant, err := h.store.GetRestaurant(r.Context(), staff.RestaurantID)
	if err != nil {
		h.log.Error("login: get restaurant", zap.String("staff_id", staff.ID.String()), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.respondWithToken(w, staff.ID, restaurant, staff.FullName, staff.Email, enum.OperatorStaff)
}

// --- Helpers ---

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, userID uuid.UUID, restaurant database.Restaurant, name, email, role string) {
	token, err := auth.GenerateToken(h.jwtSecret, userID, restaurant.ID, role, name)
	if err != nil {
		h.log.Error("login: sign token", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	user := userResponse{
		RestaurantID:   restaurant.ID,
		RestaurantName: restaurant.Name,
		Name:           name,
		Email:          email,
		Role:           role,
	}
	if userID != uuid.Nil {
		user.ID = &userID
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, User: user})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("failed to encode JSON response", zap.Error(err))
	}
}
