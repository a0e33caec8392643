package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	timeFormat = "2006-01-02 15:04:05"
	issuer     = "olympiad"

	defaultSessionTTL = 30 * 24 * time.Hour
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionMismatch = errors.New("session belongs to another user")
	ErrInvalidToken    = errors.New("invalid token")
)

// Claims is the JWT payload. The session id is checked against the redis
// registry on every request so sessions can be revoked before they expire.
type Claims struct {
	UserID    string `json:"uid"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type SessionInfo struct {
	SessionID       string
	UserID          string
	RequestCount    int64
	CreatedTime     time.Time
	LastRequestTime time.Time
}

// TokenManager issues signed session tokens and keeps the registry of live
// sessions in redis.
type TokenManager struct {
	redis       *redis.Client
	secret      []byte
	keyTemplate string
	ttl         time.Duration
	now         func() time.Time
}

func NewTokenManager(client *redis.Client, secret, keyTemplate string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &TokenManager{
		redis:       client,
		secret:      []byte(secret),
		keyTemplate: keyTemplate,
		ttl:         ttl,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (tm *TokenManager) key(sessionID string) string {
	return strings.NewReplacer("{session}", sessionID).Replace(tm.keyTemplate)
}

// Sign produces a token for a session without registering it.
func (tm *TokenManager) Sign(userID, sessionID string) (string, error) {
	now := tm.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	})
	s, err := tok.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return s, nil
}

// Parse verifies the signature and expiry of a token.
func (tm *TokenManager) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" || claims.SessionID == "" {
		return nil, fmt.Errorf("%w: missing uid or sid", ErrInvalidToken)
	}
	return claims, nil
}

// Issue registers a new session for userID and returns its token.
func (tm *TokenManager) Issue(ctx context.Context, userID string) (string, *SessionInfo, error) {
	sessionID := uuid.NewString()
	now := tm.now()

	pipe := tm.redis.TxPipeline()
	pipe.HSet(ctx, tm.key(sessionID), map[string]interface{}{
		"user_id":               userID,
		"request_count":         0,
		"last_request_dttm_utc": now.Format(timeFormat),
		"created_dttm_utc":      now.Format(timeFormat),
	})
	pipe.Expire(ctx, tm.key(sessionID), tm.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := tm.Sign(userID, sessionID)
	if err != nil {
		return "", nil, err
	}
	return token, &SessionInfo{
		SessionID:       sessionID,
		UserID:          userID,
		CreatedTime:     now,
		LastRequestTime: now,
	}, nil
}

// Touch checks that the session is live and owned by userID, and records
// the request against it.
func (tm *TokenManager) Touch(ctx context.Context, sessionID, userID string) (*SessionInfo, error) {
	key := tm.key(sessionID)

	owner, err := tm.redis.HGet(ctx, key, "user_id").Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check session: %w", err)
	}
	if owner != userID {
		return nil, ErrSessionMismatch
	}

	now := tm.now()
	pipe := tm.redis.Pipeline()
	count := pipe.HIncrBy(ctx, key, "request_count", 1)
	pipe.HSet(ctx, key, "last_request_dttm_utc", now.Format(timeFormat))
	created := pipe.HGet(ctx, key, "created_dttm_utc")
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to update session stats: %w", err)
	}

	createdTime, _ := time.Parse(timeFormat, created.Val())
	return &SessionInfo{
		SessionID:       sessionID,
		UserID:          userID,
		RequestCount:    count.Val(),
		CreatedTime:     createdTime,
		LastRequestTime: now,
	}, nil
}

// Revoke removes a session; tokens naming it stop working immediately.
func (tm *TokenManager) Revoke(ctx context.Context, sessionID string) error {
	n, err := tm.redis.Del(ctx, tm.key(sessionID)).Result()
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (tm *TokenManager) Close() error {
	if tm.redis != nil {
		return tm.redis.Close()
	}
	return nil
}
