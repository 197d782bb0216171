package user

import (
	"net/http"
	"regexp"
	"time"

	"github.com/nexcharge/nexcharge-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "user not found")
	ErrNICAlreadyUsed     = apperror.New(http.StatusConflict, "NIC is already registered")
	ErrInvalidNIC         = apperror.New(http.StatusBadRequest, "invalid NIC format")
	ErrInvalidRole        = apperror.New(http.StatusBadRequest, "invalid role")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid NIC or password")
	ErrInactiveUser       = apperror.New(http.StatusForbidden, "account is deactivated")
	ErrReactivateByOwner  = apperror.New(http.StatusForbidden, "only back office can reactivate an account")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "password is too short")
)

// Role is the closed set of account roles.
// Free-form role strings are rejected at the boundary.
type Role string

const (
	RoleBackoffice Role = "backoffice"
	RoleOperator   Role = "operator"
	RoleOwner      Role = "owner"
)

// ParseRole validates a role string against the closed enumeration.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleBackoffice, RoleOperator, RoleOwner:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

// IsStaff reports whether the role may act on other users' bookings.
func (r Role) IsStaff() bool {
	return r == RoleBackoffice || r == RoleOperator
}

// NIC is the national identity card number identifying an EV owner.
// Old format: 9 digits + V/X. New format: 12 digits.
type NIC string

var nicPattern = regexp.MustCompile(`^([0-9]{9}[VvXx]|[0-9]{12})$`)

// ParseNIC validates the NIC format and returns the typed identifier.
func ParseNIC(s string) (NIC, error) {
	if !nicPattern.MatchString(s) {
		return "", ErrInvalidNIC
	}
	return NIC(s), nil
}

func (n NIC) String() string {
	return string(n)
}

// User represents an account in the system.
type User struct {
	ID           string // UUID
	NIC          NIC
	Email        string
	PasswordHash string
	DisplayName  *string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// Filter defines filter options for listing users.
type Filter struct {
	Role     string
	IsActive *bool // pointer to distinguish between false and not set

	Page     int
	PageSize int
}
