package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

const (
	issuer     = "blogapi"
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour

	kindAccess  = "access"
	kindRefresh = "refresh"
)

type Claims struct {
	UserID string `json:"user_id"`
	Kind   string `json:"kind"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Tokens issues and verifies the HS256 access/refresh token pair. The
// access token authenticates API calls; the refresh token's only use is
// minting a new pair.
type Tokens struct {
	secret []byte
}

func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret)}
}

func (t *Tokens) Issue(userID uuid.UUID) (*TokenPair, error) {
	access, err := t.sign(userID, kindAccess, accessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := t.sign(userID, kindRefresh, refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (t *Tokens) sign(userID uuid.UUID, kind string, ttl time.Duration) (string, error) {
	if len(t.secret) == 0 {
		return "", errors.New("jwt secret is empty")
	}
	now := time.Now()
	claims := Claims{
		UserID: userID.String(),
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// ParseAccess verifies an access token and returns the user it names.
func (t *Tokens) ParseAccess(token string) (uuid.UUID, error) {
	return t.parse(token, kindAccess)
}

// ParseRefresh verifies a refresh token. Access tokens are rejected here so
// a leaked short-lived token cannot mint fresh pairs.
func (t *Tokens) ParseRefresh(token string) (uuid.UUID, error) {
	return t.parse(token, kindRefresh)
}

func (t *Tokens) parse(tokenStr, kind string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return uuid.Nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}
