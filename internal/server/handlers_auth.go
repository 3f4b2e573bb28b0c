package server

import (
	"net/http"
	"time"

	"github.com/mbakken/norbank/internal/auth"
	"github.com/mbakken/norbank/internal/common"
	"github.com/mbakken/norbank/internal/models"
)

// tokenResponse is the payload returned by all session-establishing endpoints.
type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Method    string `json:"method"`
}

// handleAuthLogin handles POST /api/auth/login — the developer login.
// Disabled in production; BankID and OIDC sessions go through /api/auth/session.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Developer login disabled in production")
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	session := auth.DevSession{Username: req.Username, Name: req.Name}
	identity, err := session.Identity()
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.app.Storage.UserStore().GetUser(r.Context(), identity.UserID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to resolve user")
		return
	}

	if user == nil {
		// First login provisions the demo user with the supplied password
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to provision user")
			return
		}
		user = &models.User{
			UserID:       identity.UserID,
			Name:         identity.Name,
			PasswordHash: hash,
			AuthMethod:   auth.MethodDev,
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.app.Storage.UserStore().SaveUser(r.Context(), user); err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to provision user")
			return
		}
		s.logger.Info().Str("user", user.UserID).Msg("Developer user provisioned")
	} else if !auth.CheckPassword(user.PasswordHash, req.Password) {
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if identity.Name == "" {
		identity.Name = user.Name
	}
	s.writeToken(w, identity)
}

// sessionRequest is the tagged-union payload for POST /api/auth/session.
// Exactly one of the method-specific blocks must be set, matching Method.
type sessionRequest struct {
	Method string              `json:"method"`
	BankID *auth.BankIDSession `json:"bankid,omitempty"`
	OIDC   *auth.OIDCSession   `json:"oidc,omitempty"`
}

// handleAuthSession handles POST /api/auth/session — establishes a session
// from a completed BankID or OIDC flow.
func (s *Server) handleAuthSession(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req sessionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	var session auth.Session
	var email string
	switch req.Method {
	case auth.MethodBankID:
		if req.BankID == nil {
			WriteError(w, http.StatusBadRequest, "Missing bankid session payload")
			return
		}
		session = *req.BankID
	case auth.MethodOIDC:
		if req.OIDC == nil {
			WriteError(w, http.StatusBadRequest, "Missing oidc session payload")
			return
		}
		session = *req.OIDC
		email = req.OIDC.Email
	default:
		WriteError(w, http.StatusBadRequest, "Unknown authentication method: "+req.Method)
		return
	}

	identity, err := session.Identity()
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Provision the user record on first session
	store := s.app.Storage.UserStore()
	user, err := store.GetUser(r.Context(), identity.UserID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to resolve user")
		return
	}
	if user == nil {
		user = &models.User{
			UserID:     identity.UserID,
			Name:       identity.Name,
			Email:      email,
			AuthMethod: identity.Method,
			CreatedAt:  time.Now().UTC(),
		}
		if err := store.SaveUser(r.Context(), user); err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to provision user")
			return
		}
		s.logger.Info().Str("user", user.UserID).Str("method", identity.Method).Msg("User provisioned")
	}

	s.writeToken(w, identity)
}

// handleAuthValidate handles GET /api/auth/validate.
func (s *Server) handleAuthValidate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	uc := common.UserContextFromContext(r.Context())
	if uc == nil {
		WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"valid":   true,
		"user_id": uc.UserID,
		"name":    uc.Name,
		"method":  uc.AuthMethod,
	})
}

func (s *Server) writeToken(w http.ResponseWriter, identity auth.Identity) {
	token, err := auth.SignToken(identity, &s.app.Config.Auth)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to sign session token")
		return
	}

	WriteJSON(w, http.StatusOK, tokenResponse{
		Token:     token,
		ExpiresIn: int(s.app.Config.Auth.GetTokenExpiry().Seconds()),
		UserID:    identity.UserID,
		Name:      identity.Name,
		Method:    identity.Method,
	})
}

// requireUser resolves the authenticated user ID or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := common.ResolveUserID(r.Context())
	if userID == "" {
		WriteError(w, http.StatusUnauthorized, "Authentication required")
		return "", false
	}
	return userID, true
}
