package devbackend

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-assoc-admin/authapi"
	"github.com/jrsteele09/go-assoc-admin/users"
	"github.com/rs/zerolog/log"
)

const maxBodySize = 1 << 20

// LoginHandler checks the credentials and returns a signed bearer token.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds users.Credentials
		if !decodeBody(w, r, &creds) {
			return
		}
		creds.Email = strings.TrimSpace(creds.Email)
		if creds.Email == "" || creds.Password == "" {
			writeMessage(w, http.StatusBadRequest, "Email and password are required")
			return
		}
		if err := creds.Validate(); err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}

		user, err := s.users.GetByEmail(creds.Email)
		if err != nil || !users.CheckPasswordHash(creds.Password, user.PasswordHash) {
			writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		raw, _, err := s.issuer.Issue(user)
		if err != nil {
			log.Error().Err(err).Str("user", user.ID).Msg("failed to issue token")
			writeMessage(w, http.StatusInternalServerError, "Unable to create session")
			return
		}
		writeJSON(w, http.StatusOK, authapi.LoginResponse{Token: raw, User: user})
	}
}

// LogoutHandler revokes the bearer token the request was made with.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, _ := r.Context().Value(ContextKeyToken).(string)
		if err := s.issuer.Revoke(r.Context(), raw); err != nil {
			log.Warn().Err(err).Msg("failed to revoke token on logout")
		}
		writeJSON(w, http.StatusOK, authapi.MessageResponse{Message: "Logged out"})
	}
}

func (s *Server) GetProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.currentUser(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) UpdateProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update users.ProfileUpdate
		if !decodeBody(w, r, &update) {
			return
		}
		if err := update.Validate(); err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}

		user, ok := s.currentUser(w, r)
		if !ok {
			return
		}
		update.Apply(user)
		if err := s.users.Upsert(user); err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) ChangePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var change users.PasswordChange
		if !decodeBody(w, r, &change) {
			return
		}
		if err := change.Validate(); err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}

		user, ok := s.currentUser(w, r)
		if !ok {
			return
		}
		if !users.CheckPasswordHash(change.CurrentPassword, user.PasswordHash) {
			writeMessage(w, http.StatusBadRequest, "Current password is incorrect")
			return
		}

		hash, err := users.HashPassword(change.NewPassword)
		if err != nil {
			log.Error().Err(err).Msg("failed to hash password")
			writeMessage(w, http.StatusInternalServerError, "Unable to change password")
			return
		}
		user.PasswordHash = hash
		if err := s.users.Upsert(user); err != nil {
			log.Error().Err(err).Str("user", user.ID).Msg("failed to store password")
			writeMessage(w, http.StatusInternalServerError, "Unable to change password")
			return
		}
		writeJSON(w, http.StatusOK, authapi.MessageResponse{Message: "Password updated"})
	}
}

// currentUser loads the user the verified token belongs to.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (*users.User, bool) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid or expired token")
		return nil, false
	}
	user, err := s.users.GetByID(claims.Subject)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return nil, false
	}
	return user, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, authapi.MessageResponse{Message: message})
}
