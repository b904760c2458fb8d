package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"github.com/ashishpal07/qp-assessment/internal/auth"
	"github.com/ashishpal07/qp-assessment/internal/store"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (req registerRequest) validate() error {
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return errors.New("Email should be in format user@example.com.")
	}
	if len(req.Password) < 3 {
		return errors.New("Password should be minimum 3 characters.")
	}
	if len(req.Name) < 3 {
		return errors.New("Name should be minimum 3 characters.")
	}
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req loginRequest) validate() error {
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return errors.New("Email should be in format user@example.com.")
	}
	if len(req.Password) < 3 {
		return errors.New("Password should be minimum 3 characters.")
	}
	return nil
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := req.validate(); err != nil {
		s.respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password, s.cfg.Auth.BcryptCost)
	if err != nil {
		s.respondStoreError(w, err, "Internal server error while registering user.")
		return
	}

	user, err := store.CreateUser(r.Context(), s.db, req.Email, hash, req.Name)
	if err != nil {
		s.respondStoreError(w, err, "Internal server error while registering user.")
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully.",
		"user":    user,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := req.validate(); err != nil {
		s.respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := store.GetUserByEmail(r.Context(), s.db, req.Email)
	if err != nil {
		s.respondStoreError(w, err, "Internal server error while logging in user.")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.respondMessage(w, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		s.respondStoreError(w, err, "Internal server error while logging in user.")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{
		"message": "User logged in successfully.",
		"token":   token,
	})
}
