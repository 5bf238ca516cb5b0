package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

var (
	ErrTokenMissing = errors.New("authorization header missing")
	ErrTokenRevoked = errors.New("token revoked")
)

// Gate is the per-request authorization middleware. Exempt requests pass
// through untouched; everything else must carry a Bearer token that
// verifies and survives the revocation policy.
type Gate struct {
	codec      *Codec
	exemptions *Exemptions
	policy     RevocationPolicy
}

func NewGate(codec *Codec, exemptions *Exemptions, policy RevocationPolicy) *Gate {
	return &Gate{codec: codec, exemptions: exemptions, policy: policy}
}

func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.exemptions.IsExempt(r.URL.Path, r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			g.reject(w, r, ErrTokenMissing)
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			g.reject(w, r, ErrTokenMissing)
			return
		}

		claims, err := g.codec.Verify(parts[1])
		if err != nil {
			g.reject(w, r, err)
			return
		}

		if g.policy.IsRevoked(claims) {
			slog.Warn("token revoked by policy", "user_id", claims.UserID, "path", r.URL.Path)
			g.reject(w, r, ErrTokenRevoked)
			return
		}

		// Client may have gone away during verification.
		if r.Context().Err() != nil {
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func (g *Gate) reject(w http.ResponseWriter, r *http.Request, err error) {
	if r.Context().Err() != nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   RejectionKind(err),
	})
}

// RejectionKind names the rejection cause for the response body.
func RejectionKind(err error) string {
	switch {
	case errors.Is(err, ErrTokenMissing):
		return "MissingToken"
	case errors.Is(err, ErrTokenExpired):
		return "ExpiredToken"
	case errors.Is(err, ErrSignatureMismatch):
		return "SignatureMismatch"
	case errors.Is(err, ErrTokenRevoked):
		return "RevokedToken"
	default:
		return "MalformedToken"
	}
}
