package middleware

import (
	"strings"

	"basket-backend/pkg/errs"
	"basket-backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	TenantHeader = "x-user-db"
	TenantQuery  = "userDb"

	tenantKey = "tenant"
	adminKey  = "admin"
)

type TenantParser interface {
	ParseTenant(token string) (string, error)
}

type AdminParser interface {
	ParseAdmin(token string) (string, error)
}

// Tenant resolves the tenant session token from the x-user-db header, or the
// userDb query parameter, and stores the verified tenant name.
func Tenant(parser TenantParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(TenantHeader)
		if token == "" {
			token = c.Query(TenantQuery)
		}
		if token == "" {
			response.WriteErrorResponse(c, errs.ErrMissingTenant)
			return
		}

		tenant, err := parser.ParseTenant(token)
		if err != nil {
			log.Ctx(c.Request.Context()).Warn().Err(err).Msg("rejected tenant token")
			response.WriteErrorResponse(c, errs.ErrInvalidTenant)
			return
		}

		c.Set(tenantKey, tenant)
		l := log.Ctx(c.Request.Context()).With().Str("tenant", tenant).Logger()
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))
		c.Next()
	}
}

// TenantFrom returns the tenant stored by Tenant.
func TenantFrom(c *gin.Context) string {
	return c.GetString(tenantKey)
}

// AdminGuard requires an admin token in the Authorization header.
func AdminGuard(parser AdminParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.WriteErrorResponse(c, errors.Wrap(errs.ErrUnauthorized, "missing bearer token"))
			return
		}

		username, err := parser.ParseAdmin(token)
		if err != nil {
			response.WriteErrorResponse(c, errs.ErrUnauthorized)
			return
		}

		c.Set(adminKey, username)
		c.Next()
	}
}
