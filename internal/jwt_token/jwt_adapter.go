package jwttoken

import "mrzgate/pkg/platform/middleware/auth"

// JWTServiceAdapter exposes the service as the auth middleware's validator.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*auth.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &auth.JWTClaims{
		ClientID: claims.ClientID,
		Scopes:   claims.Scope,
		JTI:      claims.ID,
	}, nil
}
