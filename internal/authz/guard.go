// Package authz decides whether the current principal may touch a record.
//
// Every handler that reads a record by id or mutates an owned record goes
// through Authorize (usually via Load). Decisions are never cached: the
// principal is resolved again on each request.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/VncsRaniery/habitask-sub001/internal/models"
	"github.com/VncsRaniery/habitask-sub001/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ContextKey is where the principal lives in the gin context.
const ContextKey = "currentUser"

var (
	ErrUnauthenticated = util.ErrUnauthenticated
	ErrForbidden       = util.ErrForbidden
	ErrNotFound        = util.ErrNotFound
)

// Owned is implemented by every record that belongs to a user.
type Owned interface {
	OwnerID() string
}

// Authorize permits the operation iff principal owns record.
// A nil record means the lookup found nothing.
func Authorize(principal *models.User, record Owned) error {
	switch {
	case principal == nil:
		return ErrUnauthenticated
	case record == nil:
		return ErrNotFound
	case record.OwnerID() != principal.ID:
		return ErrForbidden
	}
	return nil
}

// Principal returns the user resolved for this request, or nil.
func Principal(c *gin.Context) *models.User {
	v, ok := c.Get(ContextKey)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		return nil
	}
	return user
}

// Require returns the principal or ErrUnauthenticated.
func Require(c *gin.Context) (*models.User, error) {
	if p := Principal(c); p != nil {
		return p, nil
	}
	return nil, ErrUnauthenticated
}

// Load fetches the record with the given id and authorizes principal
// against it. The store is not queried when principal is nil.
func Load[T any, PT interface {
	*T
	Owned
}](ctx context.Context, db *gorm.DB, principal *models.User, id string) (PT, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}

	var record T
	err := db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, Authorize(principal, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("load %T %s: %w", record, id, err)
	}

	ptr := PT(&record)
	if err := Authorize(principal, ptr); err != nil {
		return nil, err
	}
	return ptr, nil
}
