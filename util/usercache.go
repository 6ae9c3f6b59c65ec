package util

import (
	"fmt"
	"time"

	"github.com/Paul-trunc/DentalAppointments/model"
	cache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// Cache for userID -> email lookups. Booking confirmations and every
// reminder sweep resolve recipient addresses by user id; the TTL keeps
// profile email changes from being stale for long.
var emailCache = cache.New(10*time.Minute, 30*time.Minute)

// UserEmail returns the email address for a user id, consulting the cache
// before the database.
func UserEmail(db *gorm.DB, userID uint) (string, error) {
	key := fmt.Sprintf("%d", userID)
	if v, found := emailCache.Get(key); found {
		if email, ok := v.(string); ok {
			return email, nil
		}
	}

	var user model.User
	if err := db.Select("email").First(&user, userID).Error; err != nil {
		return "", err
	}

	emailCache.Set(key, user.Email, cache.DefaultExpiration)
	return user.Email, nil
}

// InvalidateUserEmail drops the cached address after a profile update.
func InvalidateUserEmail(userID uint) {
	emailCache.Delete(fmt.Sprintf("%d", userID))
}
