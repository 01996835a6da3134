package models

import "time"

type Restaurant struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"not null"`
	Address      string     `json:"address"`
	Phone        string     `json:"phone"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	Rating       float64    `json:"rating" gorm:"default:0"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	OpeningTime  string     `json:"opening_time"`  // "HH:MM", local to the restaurant
	ClosingTime  string     `json:"closing_time"`
	DeliveryTime int        `json:"delivery_time_minutes"`
	Tags         []Tag      `json:"tags,omitempty" gorm:"many2many:restaurant_tags;"`
	MenuItems    []MenuItem `json:"menu_items,omitempty" gorm:"foreignKey:RestaurantID"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

type MenuItem struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	RestaurantID uint      `json:"restaurant_id" gorm:"not null;index"`
	Name         string    `json:"name" gorm:"not null"`
	Description  string    `json:"description"`
	Price        float64   `json:"price" gorm:"not null"`
	Category     string    `json:"category"`
	IsAvailable  bool      `json:"is_available" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StaffPosition gates privileged kitchen-staff actions: only managers may
// administer the staff roster or reassign drivers.
type StaffPosition string

const (
	PositionCook      StaffPosition = "cook"
	PositionChef      StaffPosition = "chef"
	PositionManager   StaffPosition = "manager"
	PositionAssistant StaffPosition = "assistant"
)

// ValidPosition reports whether p is one of the known staff positions.
func ValidPosition(p StaffPosition) bool {
	switch p {
	case PositionCook, PositionChef, PositionManager, PositionAssistant:
		return true
	}
	return false
}

// KitchenStaff links a kitchen_staff user to exactly one restaurant.
type KitchenStaff struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	UserID       uint          `json:"user_id" gorm:"uniqueIndex;not null"`
	User         User          `json:"user,omitempty" gorm:"foreignKey:UserID"`
	RestaurantID uint          `json:"restaurant_id" gorm:"not null;index"`
	Restaurant   Restaurant    `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	Position     StaffPosition `json:"position" gorm:"not null;default:'cook'"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
