package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/rulos-nico/17025/internal/models"
	"github.com/rulos-nico/17025/internal/utils"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username   string  `json:"username"`
	Password   string  `json:"password"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	PersonalID *string `json:"personal_id,omitempty"`
}

// login handles user login
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var loginReq LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&loginReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := r.stores.Users.FindByUsername(loginReq.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	if user == nil || !user.IsActive {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !utils.CheckPasswordHash(loginReq.Password, user.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := r.stores.Users.TouchLogin(user.ID); err != nil {
		log.Printf("⚠️ Failed to update last login for %s: %v", user.Username, err)
	}

	accessToken, refreshToken, err := utils.GenerateTokens(user, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate tokens")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tokens": map[string]string{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		},
		"user": user,
	})
}

// register creates a new API account. Role defaults to consulta; anything
// stronger is assigned by an admin afterwards.
func (r *Router) register(w http.ResponseWriter, req *http.Request) {
	var regReq RegisterRequest
	if err := json.NewDecoder(req.Body).Decode(&regReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if regReq.Username == "" || regReq.Password == "" || regReq.Email == "" {
		respondError(w, http.StatusBadRequest, "username, password and email are required")
		return
	}

	hash, err := utils.HashPassword(regReq.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := &models.UserAuth{
		ID:         utils.GenerateUUID(),
		Username:   regReq.Username,
		Password:   hash,
		Email:      regReq.Email,
		Name:       regReq.Name,
		Role:       "consulta",
		PersonalID: regReq.PersonalID,
		IsActive:   true,
	}

	if err := r.stores.Users.Create(user); err != nil {
		respondError(w, http.StatusConflict, "Username or email already taken")
		return
	}

	respondJSON(w, http.StatusCreated, user)
}
