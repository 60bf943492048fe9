package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"product-api/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

type contextKey string

const subjectKey contextKey = "auth_subject"

// Subject returns the authenticated caller recorded by Authenticate.
func Subject(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey).(string)
	return s
}

// Authenticate admits requests carrying either the configured X-API-Key or a
// bearer token signed with jwtSecret (HS256). An empty apiKey or jwtSecret
// disables that method.
func Authenticate(apiKey, jwtSecret string, onError ErrorHandler, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key := r.Header.Get("X-API-Key"); key != "" && apiKey != "" {
				if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1 {
					next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), subjectKey, "api-key")))
					return
				}
				logger.Warn().Str("path", r.URL.Path).Msg("invalid API key")
				onError(w, r, model.NewUnauthorisedError("Invalid API key"))
				return
			}

			token, ok := bearerToken(r)
			if !ok || jwtSecret == "" {
				logger.Warn().Str("path", r.URL.Path).Msg("missing credentials")
				onError(w, r, model.NewUnauthorisedError("Authentication required"))
				return
			}

			subject, err := verifyToken(token, jwtSecret)
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("invalid bearer token")
				onError(w, r, model.NewUnauthorisedError("Invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), subjectKey, subject)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// verifyToken checks the signature and registered claims and returns the subject.
func verifyToken(tokenString, secret string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token claims")
	}

	return claims.Subject, nil
}
