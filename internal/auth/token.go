package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrWrongType    = errors.New("auth: wrong token type")
	ErrRevoked      = errors.New("auth: token revoked")
)

// Claims adalah isi JWT yang kita terbitkan.
type Claims struct {
	UserID    int    `json:"user_id"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Pair is returned on register and login.
type Pair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// TokenManager signs and verifies HS256 access/refresh tokens.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	blacklist  Blacklist
	now        func() time.Time
}

func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration, blacklist Blacklist) *TokenManager {
	if blacklist == nil {
		blacklist = NewMemoryBlacklist()
	}
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		blacklist:  blacklist,
		now:        time.Now,
	}
}

func (m *TokenManager) IssuePair(userID int, role string) (Pair, error) {
	refresh, err := m.sign(userID, role, TypeRefresh, m.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	access, err := m.sign(userID, role, TypeAccess, m.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Refresh: refresh, Access: access}, nil
}

// ParseAccess verifies an access token. Refresh tokens are rejected.
func (m *TokenManager) ParseAccess(token string) (*Claims, error) {
	return m.parse(token, TypeAccess)
}

// Refresh mints a new access token from a refresh token that has not been
// revoked.
func (m *TokenManager) Refresh(ctx context.Context, refresh string) (string, error) {
	claims, err := m.parse(refresh, TypeRefresh)
	if err != nil {
		return "", err
	}
	revoked, err := m.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return "", fmt.Errorf("check blacklist: %w", err)
	}
	if revoked {
		return "", ErrRevoked
	}
	return m.sign(claims.UserID, claims.Role, TypeAccess, m.accessTTL)
}

// Revoke blacklists a refresh token until it would have expired anyway.
func (m *TokenManager) Revoke(ctx context.Context, refresh string) error {
	claims, err := m.parse(refresh, TypeRefresh)
	if err != nil {
		return err
	}
	if claims.ExpiresAt == nil {
		return ErrInvalidToken
	}
	ttl := claims.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return ErrInvalidToken
	}
	return m.blacklist.Add(ctx, claims.ID, ttl)
}

func (m *TokenManager) sign(userID int, role, tokenType string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		UserID:    userID,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (m *TokenManager) parse(raw, tokenType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongType
	}
	return claims, nil
}
