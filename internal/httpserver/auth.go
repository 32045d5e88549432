// internal/httpserver/auth.go
//
// Guest identity handling. Players are guests: POST /auth/guest mints a
// user id and an HS256 JWT carrying it, and the optional-auth middleware
// decorates later requests with that identity when a valid token is
// presented (Authorization bearer or cookie). There are no passwords; the
// token only re-links a returning browser to its userId.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// authUser is placed into request context by the auth middleware.
type authUser struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type ctxUserKey struct{}

type guestReq struct {
	Name string `json:"name"`
}

type guestRes struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Token string `json:"token"`
}

// handleGuest mints a fresh guest identity.
func (s *Server) handleGuest(w http.ResponseWriter, r *http.Request) {
	var req guestReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	id := uuid.NewString()
	token, err := signGuestJWT(id, req.Name)
	if err != nil {
		log.Error().Err(err).Msg("sign guest token")
		http.Error(w, `{"error":"token_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(guestRes{ID: id, Name: req.Name, Token: token})
}

// withOptionalAuth decorates requests with the guest identity when a valid
// token is present; requests without one still run.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerOrCookie(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret()), nil
			})
			if err != nil || !token.Valid {
				next.ServeHTTP(w, r)
				return
			}
			id, _ := claims["id"].(string)
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}
			name, _ := claims["name"].(string)
			ctx := context.WithValue(r.Context(), ctxUserKey{}, &authUser{ID: id, Name: name})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// signGuestJWT creates an HS256 JWT with the guest id and a configurable
// expiry (JWT_EXPIRES_DAYS; default 14).
func signGuestJWT(id, name string) (string, error) {
	days := 14
	if v := os.Getenv("JWT_EXPIRES_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			days = n
		}
	}
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   id,
		"name": name,
		"exp":  now.Add(time.Duration(days) * 24 * time.Hour).Unix(),
		"iat":  now.Unix(),
	})
	return t.SignedString([]byte(jwtSecret()))
}

func jwtSecret() string {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return s
	}
	return "dev_secret_change_me"
}

// bearerOrCookie extracts a token from the Authorization header or the auth
// cookie.
func bearerOrCookie(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	name := os.Getenv("COOKIE_NAME")
	if name == "" {
		name = "codenames_token"
	}
	if c, err := r.Cookie(name); err == nil {
		return c.Value
	}
	return ""
}
