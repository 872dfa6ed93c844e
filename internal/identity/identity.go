// Copyright 2026 The UNIV.LIVE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package identity

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Roles recognized by the platform.
const (
	RoleEducator = "EDUCATOR"
	RoleStudent  = "STUDENT"
	RoleAdmin    = "ADMIN"
)

// ErrForbidden is returned whenever a bearer token does not resolve to an
// authorized account. Handlers surface it verbatim as HTTP 403.
var ErrForbidden = errors.New("Forbidden")

// Principal is the authenticated caller resolved from a bearer token.
type Principal struct {
	UID   string
	Role  string
	Email string
}

// HasRole reports whether the principal holds any of the given roles.
func (p *Principal) HasRole(roles ...string) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// Service verifies bearer tokens issued by the identity provider.
type Service struct {
	secret []byte
}

// NewService creates a token verifier with the shared signing secret.
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// Authenticate parses and validates a bearer token and returns the caller's
// principal. Any parse or validation failure maps to ErrForbidden; the
// underlying cause is kept for server-side logging only.
func (s *Service) Authenticate(tokenString string) (*Principal, error) {
	if tokenString == "" {
		return nil, ErrForbidden
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrForbidden
	}

	uid, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	email, _ := claims["email"].(string)
	if uid == "" || role == "" {
		return nil, ErrForbidden
	}

	return &Principal{UID: uid, Role: role, Email: email}, nil
}
