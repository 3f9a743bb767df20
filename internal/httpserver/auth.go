// internal/httpserver/auth.go
//
// Operator login for the admin endpoints.
// A single operator account comes from configuration (username + bcrypt
// hash). Login returns an HS256 JWT that must be sent as
// "Authorization: Bearer <token>".

package httpserver

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Admin is the operator account. Login is disabled unless all of Username,
// PasswordHash and Secret are set.
type Admin struct {
	Username     string
	PasswordHash string
	Secret       string
	Expires      time.Duration // default 24h
}

func (a Admin) enabled() bool {
	return a.Username != "" && a.PasswordHash != "" && a.Secret != ""
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRes struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Server) mountAdmin(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.With(s.requireAuth()).Get("/session", s.handleAdminSession)
	})
}

// handleLogin checks the operator credentials and returns a signed token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.opts.Admin.enabled() {
		http.Error(w, `{"error":"admin_disabled"}`, http.StatusServiceUnavailable)
		return
	}
	var body loginReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	if !s.checkAdmin(strings.TrimSpace(body.Username), body.Password) {
		s.log.Warn().Str("username", body.Username).Msg("admin login rejected")
		http.Error(w, `{"error":"Invalid username or password"}`, http.StatusUnauthorized)
		return
	}
	tok, exp, err := s.signJWT(s.opts.Admin.Username)
	if err != nil {
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(loginRes{Token: tok, ExpiresAt: exp})
}

// handleAdminSession returns the session view including the answer.
func (s *Server) handleAdminSession(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(toSessionRes(s.src.Snapshot(), true))
}

func (s *Server) checkAdmin(username, password string) bool {
	a := s.opts.Admin
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.Username)) == 1
	pwOK := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
	return userOK && pwOK
}

// signJWT creates an HS256 JWT for the operator.
func (s *Server) signJWT(username string) (string, time.Time, error) {
	ttl := s.opts.Admin.Expires
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := time.Now()
	exp := now.Add(ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.opts.Admin.Secret))
	return ss, exp, err
}

// bearer extracts the token from "Authorization: Bearer <token>".
func bearer(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// requireAuth enforces a valid operator JWT.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !s.opts.Admin.enabled() {
				http.Error(w, `{"error":"admin_disabled"}`, http.StatusServiceUnavailable)
				return
			}
			tokenStr := bearer(r)
			if tokenStr == "" {
				http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
				return
			}
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(s.opts.Admin.Secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
				return
			}
			// Tokens of a renamed operator no longer count.
			if sub, _ := claims.GetSubject(); sub != s.opts.Admin.Username {
				http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
