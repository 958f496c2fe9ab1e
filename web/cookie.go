package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie that carries the signed session token
const CookieName = "battleships_session"

const tokenIssuer = "battleships"

var ErrNoSession = errors.New("no game session")

// signSessionToken returns an HS256 token whose subject is the session ID
func signSessionToken(secret []byte, sessionID string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, exp, nil
}

// parseSessionToken verifies the token and returns the session ID it names
func parseSessionToken(secret []byte, tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: invalid token", ErrNoSession)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrNoSession)
	}
	return claims.Subject, nil
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string) error {
	token, exp, err := signSessionToken(h.secret, sessionID, h.cookieTTL)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// sessionFromCookie returns the session ID named by the request's cookie
func (h *Handler) sessionFromCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", ErrNoSession
	}
	return parseSessionToken(h.secret, cookie.Value)
}
