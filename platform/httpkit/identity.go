package httpkit

import (
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RoleAdmin unlocks the /admin routes. Single-user mode grants it.
const RoleAdmin = "admin"

// Identity is the resolved caller of a request.
type Identity interface {
	UserID() uuid.UUID
	HasRole(role string) bool
	IsAuthenticated() bool
	// StorageScope prefixes the caller's favorites, search history and
	// visit counters in the key-value store.
	StorageScope() string
}

type identity struct {
	userID uuid.UUID
	roles  []string
	scope  string
}

func (i *identity) UserID() uuid.UUID        { return i.userID }
func (i *identity) HasRole(role string) bool { return slices.Contains(i.roles, role) }
func (i *identity) IsAuthenticated() bool    { return i.scope != "" }
func (i *identity) StorageScope() string     { return i.scope }

// UserScope is the storage scope of userID.
func UserScope(userID uuid.UUID) string {
	return "user:" + userID.String() + ":"
}

var anonymous = &identity{}

// GetIdentity reads what AuthRequired or AnonymousIdentity stored on c.
// A request neither of them saw is unauthenticated.
func GetIdentity(c *gin.Context) Identity {
	raw, ok := c.Get(ContextUserIDKey)
	if !ok {
		return anonymous
	}
	userID, ok := raw.(uuid.UUID)
	if !ok {
		return anonymous
	}

	var roles []string
	if v, ok := c.Get(ContextRolesKey); ok {
		roles, _ = v.([]string)
	}
	return &identity{userID: userID, roles: roles, scope: UserScope(userID)}
}

// MustGetIdentity is GetIdentity that answers 401 and returns nil for an
// unauthenticated caller.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		abortUnauthorized(c, "unauthorized")
		return nil
	}
	return id
}
