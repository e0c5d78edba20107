package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"dhun/core/auth"
	"dhun/logger"
	"dhun/model"
	"dhun/repository"
)

// SignupRequest is the signup request body.
type SignupRequest struct {
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	Name        string     `json:"name"`
	DisplayName string     `json:"displayName"`
	Role        model.Role `json:"role"`
}

// LoginRequest is the login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupHandler creates a new account. Listener accounts are usable
// immediately; distributor, artist and admin signups wait for approval.
func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" || req.Name == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	role := req.Role
	if role == "" {
		role = model.RoleListener
	}
	if !model.ValidRole(role) {
		respondError(w, http.StatusBadRequest, "Unknown role")
		return
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Name
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error("[Signup] Failed to hash password", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to process password")
		return
	}

	user := &model.User{
		Email:        req.Email,
		Name:         req.Name,
		DisplayName:  displayName,
		PasswordHash: hashedPassword,
		Role:         role,
		Status:       model.InitialStatus(role),
	}

	userID, err := h.userRepo.CreateUser(r.Context(), user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			logger.Warn("[Signup] Email already registered", logger.String("email", req.Email))
			respondError(w, http.StatusBadRequest, "User already exists")
			return
		}
		logger.Error("[Signup] Failed to create user", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	logger.Info("[Signup] User created",
		logger.Int64("userId", userID),
		logger.String("role", string(role)),
		logger.String("status", string(user.Status)))

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User created successfully",
		"userId":  userID,
	})
}

// LoginHandler verifies credentials and issues a session token.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.userRepo.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		logger.Error("[Login] Failed to look up user", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil || !auth.VerifyPassword(req.Password, user.PasswordHash) {
		logger.Warn("[Login] Invalid credentials", logger.String("email", req.Email))
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.tokens.GenerateToken(user)
	if err != nil {
		logger.Error("[Login] Failed to generate token", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.Info("[Login] Login succeeded", logger.Int64("userId", user.ID))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// AuthMiddleware validates the Bearer token and attaches the session to the
// request context. Role checks stay inside the services, which take the
// session explicitly.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := h.tokens.ParseToken(parts[1])
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := auth.WithSession(r.Context(), claims.Session())
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
