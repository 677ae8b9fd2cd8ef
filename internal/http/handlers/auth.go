package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/auth-smoke/internal/auth"
	"github.com/hongminglow/auth-smoke/internal/http/respond"
	"github.com/hongminglow/auth-smoke/internal/middleware"
	"github.com/hongminglow/auth-smoke/internal/models"
	"github.com/hongminglow/auth-smoke/internal/models/dto"
	"github.com/hongminglow/auth-smoke/internal/storage"
	"github.com/hongminglow/auth-smoke/internal/validate"
)

const anonymousPrefix = "anonymous_"

// AuthHandler owns the /auth endpoints exercised by the smoke driver.
type AuthHandler struct {
	store     storage.PlayerStore
	tokens    *auth.TokenManager
	validator *validate.Validator
	anonTTL   time.Duration
}

// NewAuthHandler constructs the handler. anonTTL bounds tokens handed to anonymous players.
func NewAuthHandler(store storage.PlayerStore, tokens *auth.TokenManager, v *validate.Validator, anonTTL time.Duration) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens, validator: v, anonTTL: anonTTL}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/auth/register", h.handleRegister)
	mux.HandleFunc("/auth/login", h.handleLogin)
	mux.HandleFunc("/auth/anonymous", h.handleAnonymous)
	mux.Handle("/auth/me", middleware.RequireBearer(h.tokens, http.HandlerFunc(h.handleMe)))
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req dto.RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.Nick = strings.TrimSpace(req.Nick)
	req.Email = strings.TrimSpace(req.Email)

	if _, err := h.store.FindByNick(r.Context(), req.Nick); err == nil {
		respond.Error(w, http.StatusConflict, "nick already in use")
		return
	}
	if _, err := h.store.FindByEmail(r.Context(), req.Email); err == nil {
		respond.Error(w, http.StatusConflict, "email already registered")
		return
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	created, err := h.store.CreatePlayer(r.Context(), models.User{
		Name:         strings.TrimSpace(req.Name),
		Nick:         req.Nick,
		Email:        req.Email,
		Gang:         req.Gang,
		PasswordHash: passwordHash,
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			respond.Error(w, http.StatusConflict, "user already exists")
		default:
			slog.Error("create player", "nick", req.Nick, "err", err)
			respond.Error(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	respond.JSON(w, http.StatusOK, created.Record())
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req dto.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}
	user, err := h.store.FindByIdentifier(r.Context(), strings.TrimSpace(req.Identifier))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "invalid credentials")
			return
		}
		slog.Error("login: fetch player", "identifier", req.Identifier, "err", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	if user.PasswordHash == "" {
		respond.Error(w, http.StatusNotFound, "invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respond.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := h.tokens.Generate(user)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusOK, dto.LoginResponse{Token: token, User: user.Record()})
}

func (h *AuthHandler) handleAnonymous(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req dto.AnonymousRequest
	if !h.decode(w, r, &req) {
		return
	}
	nick := anonymousPrefix + req.Nick
	if _, err := h.store.FindByNick(r.Context(), nick); err == nil {
		respond.Error(w, http.StatusConflict, "nick already in use")
		return
	}

	gang := models.Gangs[rand.Intn(len(models.Gangs))]
	created, err := h.store.CreatePlayer(r.Context(), models.User{
		Name:        nick,
		Nick:        nick,
		Email:       anonymousPrefix + time.Now().Format("20060102150405.000000000") + "@local",
		Gang:        gang,
		IsAnonymous: true,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusConflict, "nick already in use")
			return
		}
		slog.Error("create anonymous player", "nick", nick, "err", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	token, err := h.tokens.GenerateWithTTL(created, h.anonTTL)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusOK, dto.LoginResponse{Token: token, User: created.Record()})
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "invalid token")
		return
	}
	user, err := h.store.FindByID(r.Context(), claims.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "user not found")
			return
		}
		slog.Error("me: fetch player", "id", claims.ID, "err", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	respond.JSON(w, http.StatusOK, dto.ProfileResponse{User: user.Record()})
}

// decode parses and validates the JSON body, writing the 400 itself on failure.
func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		var ve validate.ValidationError
		if errors.As(err, &ve) {
			respond.Validation(w, ve)
			return false
		}
		respond.Error(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
