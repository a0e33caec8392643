package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shrimpsizemoose/trekker/logger"
)

var ErrNoIdentity = errors.New("no identity on request")

type Auth struct {
	enabled     bool
	tokens      *TokenManager
	tokenHeader string
	userHeader  string
}

func NewAuth(config *Config) (*Auth, error) {
	if !config.Server.EnableAuth {
		return &Auth{enabled: false, userHeader: config.API.UserIDHeader}, nil
	}

	opt, err := redis.ParseURL(config.Auth.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	var ttl time.Duration
	if config.Auth.SessionTTL != "" {
		ttl, err = time.ParseDuration(config.Auth.SessionTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse session_ttl: %w", err)
		}
	}

	return &Auth{
		enabled:     true,
		tokens:      NewTokenManager(client, config.Auth.JWTSecret, config.Auth.SessionKeyTemplate, ttl),
		tokenHeader: config.Auth.TokenHeader,
		userHeader:  config.API.UserIDHeader,
	}, nil
}

// Tokens is nil when auth is disabled.
func (a *Auth) Tokens() *TokenManager {
	return a.tokens
}

func (a *Auth) Close() error {
	if a.tokens != nil {
		return a.tokens.Close()
	}
	return nil
}

// UserID resolves the caller of a request. With auth disabled the id is
// taken from the configured header as is.
func (a *Auth) UserID(r *http.Request) (string, error) {
	if !a.enabled {
		id := strings.TrimSpace(r.Header.Get(a.userHeader))
		if id == "" {
			return "", ErrNoIdentity
		}
		return id, nil
	}

	authHeader := r.Header.Get(a.tokenHeader)
	if authHeader == "" {
		return "", ErrNoIdentity
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", fmt.Errorf("%w: authorization header is not a bearer token", ErrInvalidToken)
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := a.tokens.Parse(token)
	if err != nil {
		logger.Debug.Printf("Rejected token: %v", err)
		return "", err
	}
	if _, err := a.tokens.Touch(r.Context(), claims.SessionID, claims.UserID); err != nil {
		logger.Debug.Printf("Rejected session %s for user %s: %v", claims.SessionID, claims.UserID, err)
		return "", err
	}
	return claims.UserID, nil
}

// IsAuthFailure reports whether err means the caller could not be
// identified, as opposed to the registry being unreachable.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrNoIdentity) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrSessionMismatch)
}
