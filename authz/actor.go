// Package authz resolves the caller into an Actor capability once per
// request and derives every order-visibility and staff-management decision
// from it, so authorization cannot drift between endpoints.
package authz

import (
	"fooddrop-api/models"

	"gorm.io/gorm"
)

// Actor is the caller's capability, resolved after token validation.
// For kitchen staff, RestaurantID and Position come from the KitchenStaff
// link; a kitchen_staff user without a link keeps the zero values and is
// scoped to the empty set.
type Actor struct {
	UserID       uint
	Role         models.UserRole
	IsSuperuser  bool
	RestaurantID uint
	Position     models.StaffPosition
}

// Resolve builds the Actor for a user. The missing-link case for kitchen
// staff is legal: the actor simply sees no orders.
func Resolve(db *gorm.DB, user *models.User) Actor {
	a := Actor{UserID: user.ID, Role: user.Role, IsSuperuser: user.IsSuperuser}
	if user.Role == models.RoleKitchenStaff {
		var link models.KitchenStaff
		// Any lookup failure leaves the zero link: the actor is scoped
		// to the empty set rather than to someone else's restaurant.
		if err := db.Where("user_id = ?", user.ID).First(&link).Error; err == nil {
			a.RestaurantID = link.RestaurantID
			a.Position = link.Position
		}
	}
	return a
}

// VisibleOrders returns the scoping predicate for order reads and writes:
// customers see their own orders, drivers their assigned orders, kitchen
// staff their restaurant's orders. It is the single source of truth for
// list, detail, item and status-update queries.
func VisibleOrders(a Actor) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch a.Role {
		case models.RoleDriver:
			return db.Where("driver_id = ?", a.UserID)
		case models.RoleKitchenStaff:
			if a.RestaurantID == 0 {
				// No staff link: empty set, not an error.
				return db.Where("1 = 0")
			}
			return db.Where("restaurant_id = ?", a.RestaurantID)
		default:
			return db.Where("customer_id = ?", a.UserID)
		}
	}
}

// CanManageStaff reports whether the actor may administer KitchenStaff
// records: superusers and manager-position kitchen staff only.
func CanManageStaff(a Actor) bool {
	if a.IsSuperuser {
		return true
	}
	return a.Role == models.RoleKitchenStaff && a.Position == models.PositionManager
}

// CanViewStaff reports whether the actor may read the given KitchenStaff
// record. Non-manager kitchen staff may only see their own row.
func CanViewStaff(a Actor, record *models.KitchenStaff) bool {
	if CanManageStaff(a) {
		return true
	}
	return a.Role == models.RoleKitchenStaff && record.UserID == a.UserID
}
