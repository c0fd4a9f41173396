package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
)

// Roles carried by the tokens. Identity and role management live outside this service;
// tokens are issued by it and only verified here.
const (
	RoleAdmin     = "admin"
	RoleRegistrar = "registrar"
	RoleTeacher   = "teacher"
	RoleStudent   = "student"
)

const (
	tokenContextKey = "userToken"
	audience        = "Academia"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	TenantID string   `json:"tenant_id"`
	Roles    []string `json:"roles,omitempty"`
}

// Caller returns the identity the core operations run for.
func (c Claims) Caller() core.Caller {
	return core.Caller{TenantID: c.TenantID, UserID: c.Subject}
}

func (c Claims) HasAnyRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, role := range roles {
		for _, have := range c.Roles {
			if role == have {
				return true
			}
		}
	}
	return false
}

// NewClaims returns the claims of a token issued to userID in tenantID.
func NewClaims(conf *core.Config, tenantID, userID string, roles ...string) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   userID,
			Audience:  audience,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		TenantID: tenantID,
		Roles:    roles,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func jwtMiddleware(conf *core.Config) echo.MiddlewareFunc {
	return middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		Claims:        new(Claims),
	})
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// contextCaller returns the caller of an authenticated request.
func contextCaller(ctx echo.Context) (core.Caller, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return core.Caller{}, err
	}
	return claims.Caller(), nil
}
