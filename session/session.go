// Package session issues and verifies the PASETO tokens handed out at login.
package session

import (
	"time"

	"basket-backend/pkg/errs"
	"github.com/o1egl/paseto"
	"github.com/pkg/errors"
)

const (
	tenantFooter = "basket-user-db"
	adminFooter  = "basket-admin"

	roleClaim = "role"
)

// Manager encrypts session tokens with a 32 byte symmetric key.
type Manager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
	v2  *paseto.V2
}

func NewManager(key []byte, ttl time.Duration) *Manager {
	return &Manager{key: key, ttl: ttl, now: time.Now, v2: paseto.NewV2()}
}

// IssueTenant returns a token whose subject is the tenant database name.
func (m *Manager) IssueTenant(tenant string) (string, error) {
	return m.issue(tenant, "user", tenantFooter)
}

// ParseTenant verifies token and returns the tenant database name.
func (m *Manager) ParseTenant(token string) (string, error) {
	subject, err := m.parse(token, tenantFooter)
	if err != nil {
		return "", errors.Wrap(errs.ErrInvalidTenant, err.Error())
	}
	return subject, nil
}

func (m *Manager) IssueAdmin(username string) (string, error) {
	return m.issue(username, "admin", adminFooter)
}

// ParseAdmin verifies an admin token and returns the admin username.
func (m *Manager) ParseAdmin(token string) (string, error) {
	subject, err := m.parse(token, adminFooter)
	if err != nil {
		return "", errors.Wrap(errs.ErrUnauthorized, err.Error())
	}
	return subject, nil
}

func (m *Manager) issue(subject, role, footer string) (string, error) {
	now := m.now()
	jsonToken := paseto.JSONToken{
		Subject:    subject,
		IssuedAt:   now,
		NotBefore:  now,
		Expiration: now.Add(m.ttl),
	}
	jsonToken.Set(roleClaim, role)

	token, err := m.v2.Encrypt(m.key, jsonToken, footer)
	if err != nil {
		return "", errors.Wrap(err, "encrypt token")
	}
	return token, nil
}

func (m *Manager) parse(token, wantFooter string) (string, error) {
	if token == "" {
		return "", errors.New("empty token")
	}

	var (
		jsonToken paseto.JSONToken
		footer    string
	)
	if err := m.v2.Decrypt(token, m.key, &jsonToken, &footer); err != nil {
		return "", errors.Wrap(err, "decrypt token")
	}
	if footer != wantFooter {
		return "", errors.New("token issued for another audience")
	}
	if err := jsonToken.Validate(paseto.ValidAt(m.now())); err != nil {
		return "", err
	}
	if jsonToken.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return jsonToken.Subject, nil
}
