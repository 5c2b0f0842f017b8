package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatlab/chatlab-server/internal/domain"
	authvalidator "github.com/chatlab/chatlab-server/internal/infrastructure/auth"
	"github.com/chatlab/chatlab-server/internal/infrastructure/metrics"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/responses"
)

const principalContextKey = "principal"

var errNoBearerToken = errors.New("no bearer token")

// AuthMiddleware validates JWT bearer tokens and stores the resulting
// principal in the gin context. Requests without a valid token are rejected.
func AuthMiddleware(validator *authvalidator.JWKSValidator, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := principalFromJWT(c, validator)
		if err != nil {
			if errors.Is(err, errNoBearerToken) {
				logger.Warn().
					Str("path", c.FullPath()).
					Str("method", c.Request.Method).
					Msg("unauthenticated request")
				metrics.AuthRequestsTotal.WithLabelValues("jwt", "missing").Inc()
				responses.HandleErrorWithStatus(c, http.StatusUnauthorized, err, "authentication required")
				return
			}
			logger.Error().Err(err).Msg("jwt validation failed")
			metrics.AuthRequestsTotal.WithLabelValues("jwt", "invalid").Inc()
			responses.HandleErrorWithStatus(c, http.StatusUnauthorized, err, "unauthorized")
			return
		}

		metrics.AuthRequestsTotal.WithLabelValues("jwt", "ok").Inc()
		setPrincipal(c, principal)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the principal when a bearer token is
// present, and lets the request through anonymously when it is not. A token
// that is present but invalid still fails the request.
func OptionalAuthMiddleware(validator *authvalidator.JWKSValidator, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := principalFromJWT(c, validator)
		if err != nil {
			if errors.Is(err, errNoBearerToken) {
				c.Next()
				return
			}
			logger.Error().Err(err).Msg("jwt validation failed")
			metrics.AuthRequestsTotal.WithLabelValues("jwt", "invalid").Inc()
			responses.HandleErrorWithStatus(c, http.StatusUnauthorized, err, "unauthorized")
			return
		}

		metrics.AuthRequestsTotal.WithLabelValues("jwt", "ok").Inc()
		setPrincipal(c, principal)
		c.Next()
	}
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(c *gin.Context) (domain.Principal, bool) {
	val, ok := c.Get(principalContextKey)
	if !ok {
		return domain.Principal{}, false
	}
	principal, ok := val.(domain.Principal)
	return principal, ok
}

func setPrincipal(c *gin.Context, principal domain.Principal) {
	c.Set(principalContextKey, principal)
	c.Set("user_subject", principal.Subject)
	if principal.Email != "" {
		c.Set("user_email", principal.Email)
	}
}

func principalFromJWT(c *gin.Context, validator *authvalidator.JWKSValidator) (domain.Principal, error) {
	if validator == nil {
		return domain.Principal{}, errNoBearerToken
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return domain.Principal{}, errNoBearerToken
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return domain.Principal{}, errNoBearerToken
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return domain.Principal{}, errNoBearerToken
	}

	claims, err := validator.Validate(c.Request.Context(), token)
	if err != nil {
		return domain.Principal{}, err
	}

	credentials := map[string]string{
		"token_id": claims.TokenID,
	}
	if claims.Issuer != "" {
		credentials["issuer"] = claims.Issuer
	}
	if claims.Picture != "" {
		credentials["picture"] = claims.Picture
	}

	return domain.Principal{
		ID:          claims.Subject,
		AuthMethod:  domain.AuthMethodJWT,
		Subject:     claims.Subject,
		Issuer:      claims.Issuer,
		Username:    claims.Username,
		Email:       claims.Email,
		Name:        claims.Name,
		Credentials: credentials,
	}, nil
}
