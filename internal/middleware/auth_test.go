package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/kiwari-pos/dinein/internal/auth"
	"github.com/kiwari-pos/dinein/internal/enum"
	"github.com/kiwari-pos/dinein/internal/middleware"
)

const testSecret = "test-secret"

func TestAuthMiddleware_ValidToken(t *testing.T) {
	userID := uuid.New()
	restaurantID := uuid.New()
	token, _ := auth.GenerateToken(testSecret, userID, restaurantID, "STAFF", "Giulia")

	handler := middleware.Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			t.Fatal("expected claims in context")
		}
		if claims.UserID != userID {
			t.Errorf("user ID: got %v, want %v", claims.UserID, userID)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	handler := middleware.Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	handler := middleware.Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestRequireRestaurant(t *testing.T) {
	restaurantID := uuid.New()
	staffToken, _ := auth.GenerateToken(testSecret, uuid.New(), restaurantID, "STAFF", "Giulia")
	ownerToken, _ := auth.GenerateToken(testSecret, uuid.Nil, restaurantID, "OWNER", "Marco")

	tests := []struct {
		name  string
		token string
		rid   string
		want  int
	}{
		{"staff own restaurant", staffToken, restaurantID.String(), http.StatusOK},
		{"staff other restaurant", staffToken, uuid.New().String(), http.StatusForbidden},
		{"owner other restaurant", ownerToken, uuid.New().String(), http.StatusForbidden},
		{"owner own restaurant", ownerToken, restaurantID.String(), http.StatusOK},
		{"malformed id", staffToken, "not-a-uuid", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := middleware.Authenticate(testSecret)(middleware.RequireRestaurant(inner))

			req := httptest.NewRequest("GET", "/restaurants/"+tt.rid+"/floor", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			req.SetPathValue("rid", tt.rid)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	token, _ := auth.GenerateToken(testSecret, uuid.New(), uuid.New(), "STAFF", "Giulia")

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// STAFF trying to access an OWNER-only endpoint
	handler := middleware.Authenticate(testSecret)(middleware.RequireRole("OWNER")(inner))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestActorFromContext(t *testing.T) {
	staffID := uuid.New()
	staffToken, _ := auth.GenerateToken(testSecret, staffID, uuid.New(), "STAFF", "Giulia")
	ownerToken, _ := auth.GenerateToken(testSecret, uuid.Nil, uuid.New(), "OWNER", "Marco")
	badToken, _ := auth.GenerateToken(testSecret, uuid.New(), uuid.New(), "CASHIER", "Old")

	tests := []struct {
		name     string
		token    string
		source   string
		ok       bool
		operator string
		wantSrc  string
	}{
		{"staff from floor", staffToken, "floor", true, enum.OperatorStaff, enum.EventSourceFloor},
		{"owner default source", ownerToken, "", true, enum.OperatorOwner, enum.EventSourceAPI},
		{"unknown source", staffToken, "telegram", true, enum.OperatorStaff, enum.EventSourceAPI},
		{"unknown role", badToken, "pos", false, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				actor, ok := middleware.ActorFromContext(r)
				if ok != tt.ok {
					t.Fatalf("ok: got %v, want %v", ok, tt.ok)
				}
				if !ok {
					return
				}
				if actor.OperatorType() != tt.operator || actor.Source() != tt.wantSrc {
					t.Errorf("actor: %s from %s, want %s from %s", actor.OperatorType(), actor.Source(), tt.operator, tt.wantSrc)
				}
				if id, hasID := actor.StaffID(); tt.operator == enum.OperatorStaff && (!hasID || id != staffID) {
					t.Errorf("staff id: got %v", id)
				}
			}))

			req := httptest.NewRequest("POST", "/", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			if tt.source != "" {
				req.Header.Set("X-Event-Source", tt.source)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)
		})
	}
}

func TestActorFromContext_NoClaims(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := middleware.ActorFromContext(req); ok {
		t.Error("expected no actor without claims")
	}
}
