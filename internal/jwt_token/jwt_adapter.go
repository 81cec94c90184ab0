package jwttoken

import (
	authmw "idlink/pkg/platform/middleware/auth"
)

// JWTServiceAdapter satisfies authmw.SessionValidator.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.SessionClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &authmw.SessionClaims{PersonID: claims.PersonID, JTI: claims.ID}, nil
}
