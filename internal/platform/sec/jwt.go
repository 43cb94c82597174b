// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the auth.TokenProvider interface.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any token that fails parsing, signature or expiry checks.
var ErrInvalidToken = errors.New("sec: invalid token")

// Identity is the subset of a user record embedded in both tokens of a session.
type Identity struct {
	UserID   string
	Email    string
	Role     Role
	ClientID *string
	Version  int
}

// AuthClaims represents the payload embedded inside access and refresh tokens.
//
// The version claim snapshots the user's record version at issuance. Any later
// mutation of the user bumps the stored version, which makes the claim stale.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID   string  `json:"id"`
	Email    string  `json:"email"`
	Role     Role    `json:"role"`
	ClientID *string `json:"clientId"`
	Version  int     `json:"version"`
}

// Identity returns the identity carried by the claims.
func (claims *AuthClaims) Identity() Identity {
	return Identity{
		UserID:   claims.UserID,
		Email:    claims.Email,
		Role:     claims.Role,
		ClientID: claims.ClientID,
		Version:  claims.Version,
	}
}

// TokenService handles generation and verification of HS256 tokens.
//
// Access and refresh tokens are signed with independent secrets so a refresh
// token can never be replayed as an access token and vice versa.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenService creates a new TokenService.
func NewTokenService(accessSecret, refreshSecret, issuer string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("sec: token secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("sec: access and refresh secrets must differ")
	}

	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}, nil
}

// WithClock replaces the time source. Intended for tests.
func (service *TokenService) WithClock(now func() time.Time) *TokenService {
	service.now = now
	return service
}

// GenerateAccessToken signs a short-lived access token for identity.
func (service *TokenService) GenerateAccessToken(identity Identity) (string, time.Time, error) {
	return service.sign(identity, service.accessSecret, service.accessTTL)
}

// GenerateRefreshToken signs a long-lived refresh token for identity.
func (service *TokenService) GenerateRefreshToken(identity Identity) (string, time.Time, error) {
	return service.sign(identity, service.refreshSecret, service.refreshTTL)
}

// VerifyToken checks an access token's signature and expiry.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	return service.verify(tokenString, service.accessSecret)
}

// VerifyRefreshToken checks a refresh token's signature and expiry.
func (service *TokenService) VerifyRefreshToken(tokenString string) (*AuthClaims, error) {
	return service.verify(tokenString, service.refreshSecret)
}

func (service *TokenService) sign(identity Identity, secret []byte, timeToLive time.Duration) (string, time.Time, error) {
	currentTime := service.now()
	expiresAt := currentTime.Add(timeToLive)

	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			// jti keeps two tokens issued within the same second distinct
			ID:        uuid.NewString(),
			Subject:   identity.UserID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:   identity.UserID,
		Email:    identity.Email,
		Role:     identity.Role,
		ClientID: identity.ClientID,
		Version:  identity.Version,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, expiresAt, nil
}

func (service *TokenService) verify(tokenString string, secret []byte) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
