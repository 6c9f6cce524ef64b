package jwttoken

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "mrzgate/pkg/domain"
	dErrors "mrzgate/pkg/domain-errors"
	"mrzgate/pkg/requestcontext"
)

// ScopeDecode allows submitting documents; ScopeRead allows fetching results.
// ScopeAdmin grants the audit trail endpoints.
const (
	ScopeDecode = "documents:decode"
	ScopeRead   = "documents:read"
	ScopeAdmin  = "admin:audit"
)

// Issuer and audience of tokens minted for the gateway and by tokengen.
const (
	DefaultIssuer   = "mrzgate"
	DefaultAudience = "mrzgate-client"
)

// ClientTokenClaims are the claims of a bearer token issued to an API client.
type ClientTokenClaims struct {
	ClientID string   `json:"client_id"`
	Env      string   `json:"env,omitempty"`
	Scope    []string `json:"scope"`
	jwt.RegisteredClaims
}

// JWTService signs and validates HS256 client tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	tokenTTL   time.Duration
	env        string
}

func NewJWTService(signingKey, issuer, audience string, tokenTTL time.Duration) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		tokenTTL:   tokenTTL,
	}
}

// SetEnv annotates issued tokens with an environment name (e.g. "local").
func (s *JWTService) SetEnv(env string) {
	s.env = env
}

// GenerateClientToken returns a signed token and its JTI.
func (s *JWTService) GenerateClientToken(ctx context.Context, clientID id.ClientID, scopes []string) (string, string, error) {
	if clientID.IsNil() {
		return "", "", dErrors.New(dErrors.CodeInvalidInput, "client ID cannot be nil")
	}
	if len(scopes) == 0 {
		return "", "", dErrors.New(dErrors.CodeInvalidInput, "scopes cannot be empty")
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	jti := hex.EncodeToString(b)
	now := requestcontext.Now(ctx)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ClientTokenClaims{
		ClientID: clientID.String(),
		Env:      s.env,
		Scope:    scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   clientID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        jti,
		},
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

// ValidateToken checks signature, algorithm, expiry, issuer and audience.
func (s *JWTService) ValidateToken(tokenString string) (*ClientTokenClaims, error) {
	claims := new(ClientTokenClaims)
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return claims, nil
}
