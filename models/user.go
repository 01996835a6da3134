package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer     UserRole = "customer"
	RoleDriver       UserRole = "driver"
	RoleKitchenStaff UserRole = "kitchen_staff"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleCustomer, RoleDriver, RoleKitchenStaff:
		return true
	}
	return false
}

type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Phone       string    `json:"phone" gorm:"uniqueIndex;not null"`
	Name        string    `json:"name"`
	Role        UserRole  `json:"role" gorm:"not null;default:'customer'"`
	Rating      *float64  `json:"rating"`
	IsSuperuser bool      `json:"is_superuser" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OTP holds a one-time login code for a phone number. The code itself is
// never stored in clear; only its bcrypt hash is kept. At most one live
// (unverified, unexpired) row exists per phone: issuing a new code deletes
// the previous ones first.
type OTP struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Phone     string    `json:"phone" gorm:"index;not null"`
	CodeHash  string    `json:"-" gorm:"not null"`
	Verified  bool      `json:"verified" gorm:"default:false"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// Live reports whether the code can still be consumed at time now.
func (o *OTP) Live(now time.Time) bool {
	return !o.Verified && now.Before(o.ExpiresAt)
}

type DeliveryAddress struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	UserID    uint    `json:"user_id" gorm:"not null;index"`
	User      User    `json:"-" gorm:"foreignKey:UserID"`
	Label     string  `json:"label" gorm:"not null"`
	Address   string  `json:"address" gorm:"not null"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// is_saved and is_recent are independent facets, not mutually exclusive
	IsSaved   bool      `json:"is_saved" gorm:"default:false"`
	IsRecent  bool      `json:"is_recent" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DriverProfile struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	User         User      `json:"-" gorm:"foreignKey:UserID"`
	VehicleType  string    `json:"vehicle_type"`
	VehicleBrand string    `json:"vehicle_brand"`
	VehicleModel string    `json:"vehicle_model"`
	PlateNumber  string    `json:"plate_number"`
	Color        string    `json:"color"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
