package controllers

import (
	"net/http"
	"regexp"
	"strings"

	"basket-backend/models"
	"basket-backend/naming"
	"basket-backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z\s]+$`)
	phonePattern    = regexp.MustCompile(`^\d+$`)
)

const (
	adminRedirect = "/admin"
	userRedirect  = "/"
)

// Login signs in by username and phone. The back-office account gets an
// admin token; anyone else is upserted as a customer and receives a session
// token for their own database.
func (ctrl *Controller) Login(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteClientError(c, "Username and phone are required", err)
		return
	}

	username := strings.TrimSpace(req.Username)
	phone := strings.TrimSpace(req.Phone)
	switch {
	case username == "" || phone == "":
		response.WriteClientError(c, "Username and phone are required", nil)
		return
	case !usernamePattern.MatchString(username):
		response.WriteClientError(c, "Username must contain only letters and spaces", nil)
		return
	case !phonePattern.MatchString(phone):
		response.WriteClientError(c, "Phone must contain only digits", nil)
		return
	}

	if ctrl.isAdmin(username, phone) {
		token, err := ctrl.Sessions.IssueAdmin(username)
		if err != nil {
			response.WriteErrorResponse(c, errors.Wrap(err, "issue admin token"))
			return
		}
		c.JSON(http.StatusOK, models.LoginResponse{Role: models.RoleAdmin, Token: token, Redirect: adminRedirect})
		return
	}

	if _, err := ctrl.Users.UpsertUser(ctx, username, phone); err != nil {
		response.WriteErrorResponse(c, err)
		return
	}

	tenant := naming.TenantDatabaseName(username, phone)
	if err := ctrl.Users.EnsureTenant(ctx, tenant, username, phone); err != nil {
		response.WriteErrorResponse(c, err)
		return
	}

	token, err := ctrl.Sessions.IssueTenant(tenant)
	if err != nil {
		response.WriteErrorResponse(c, errors.Wrap(err, "issue session token"))
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Role:       models.RoleUser,
		UserDBName: tenant,
		Token:      token,
		Redirect:   userRedirect,
	})
}

func (ctrl *Controller) isAdmin(username, phone string) bool {
	if len(ctrl.Admin.PhoneHash) == 0 || username != ctrl.Admin.Username {
		return false
	}
	return bcrypt.CompareHashAndPassword(ctrl.Admin.PhoneHash, []byte(phone)) == nil
}
