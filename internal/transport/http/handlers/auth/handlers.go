package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"appraisal/internal/domain/auth"
	"appraisal/internal/transport/http/api"
	"appraisal/internal/transport/http/middleware"
)

// Handler mints role-claim tokens for the seeded demo users. Real identity
// lives outside the engine; production callers arrive with tokens issued by
// the identity provider.
type Handler struct {
	DB        *pgxpool.Pool
	JWTSecret string
	TokenTTL  time.Duration
}

func NewHandler(db *pgxpool.Pool, jwtSecret string) *Handler {
	return &Handler{DB: db, JWTSecret: jwtSecret, TokenTTL: 8 * time.Hour}
}

func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	var userID, hash, employeeID, role string
	err := h.DB.QueryRow(r.Context(), `
    SELECT id, password_hash, COALESCE(employee_id::text, ''), role
    FROM users
    WHERE email = $1
  `, payload.Email).Scan(&userID, &hash, &employeeID, &role)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "auth_failed", "authentication failed", middleware.GetRequestID(r.Context()))
		return
	}

	if err := auth.CheckPassword(hash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", middleware.GetRequestID(r.Context()))
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, auth.Claims{
		UserID:     userID,
		EmployeeID: employeeID,
		Role:       role,
	}, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "auth_failed", "token generation failed", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]string{"token": token, "role": role, "employeeId": employeeID}, middleware.GetRequestID(r.Context()))
}
