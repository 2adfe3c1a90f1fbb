package auth

import (
	"errors"
	"time"
	"treats/internal/structures"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type TokenIssuerInterface interface {
	Issue(sessionID string) (string, error)
	Parse(token string) (string, error)
}

// Claims carries the session id. Tokens never expire on their own, a session
// ends when it is removed from the workspace.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewTokenIssuer(conf *structures.Config) TokenIssuerInterface {
	return &TokenIssuer{secret: []byte(conf.Auth.Secret), now: time.Now}
}

func (ti *TokenIssuer) Issue(sessionID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(ti.now()),
		},
		SessionID: sessionID,
	})
	return token.SignedString(ti.secret)
}

func (ti *TokenIssuer) Parse(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrInvalidToken
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return ti.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}
	if !token.Valid || claims.SessionID == "" {
		return "", ErrInvalidToken
	}
	return claims.SessionID, nil
}
