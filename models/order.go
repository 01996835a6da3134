package models

import "time"

// OrderStatus represents all possible states of a food delivery order
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusPreparing  OrderStatus = "preparing"
	StatusReady      OrderStatus = "ready"
	StatusPickingUp  OrderStatus = "picking_up"
	StatusDelivering OrderStatus = "delivering"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// Terminal reports whether s admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

type Order struct {
	ID                uint            `json:"id" gorm:"primaryKey"`
	OrderNumber       string          `json:"order_number" gorm:"uniqueIndex;not null"`
	CustomerID        uint            `json:"customer_id" gorm:"not null;index"`
	Customer          User            `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	RestaurantID      uint            `json:"restaurant_id" gorm:"not null;index"`
	Restaurant        Restaurant      `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	DeliveryAddressID uint            `json:"delivery_address_id" gorm:"not null"`
	DeliveryAddress   DeliveryAddress `json:"delivery_address,omitempty" gorm:"foreignKey:DeliveryAddressID"`
	DriverID          *uint           `json:"driver_id"`
	Driver            *User           `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
	Status            OrderStatus     `json:"status" gorm:"not null;default:'pending'"`
	PaymentMethod     PaymentMethod   `json:"payment_method" gorm:"not null;default:'cash'"`
	Total             float64         `json:"total"`
	DeliveryFee       float64         `json:"delivery_fee"`
	Notes             string          `json:"notes"`
	// Version is the optimistic-concurrency token: every mutation increments
	// it and must match the value it read, otherwise the write is rejected.
	Version   int         `json:"version" gorm:"not null;default:0"`
	Items     []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// OrderItem is a snapshot of a menu item frozen at order-creation time.
// Name, description, price and category are copied, never referenced, so
// later menu edits cannot rewrite history.
type OrderItem struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	OrderID     uint    `json:"order_id" gorm:"not null;index"`
	MenuItemID  uint    `json:"menu_item_id"`
	Name        string  `json:"name" gorm:"not null"`
	Description string  `json:"description"`
	Price       float64 `json:"price" gorm:"not null"`
	Category    string  `json:"category"`
	Quantity    int     `json:"quantity" gorm:"not null;default:1"`
}

type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	OrderID   uint      `json:"order_id" gorm:"not null;index"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationType string

const (
	NotificationOrder     NotificationType = "order"
	NotificationDelivery  NotificationType = "delivery"
	NotificationPromotion NotificationType = "promotion"
	NotificationSystem    NotificationType = "system"
)

type Notification struct {
	ID      uint             `json:"id" gorm:"primaryKey"`
	UserID  uint             `json:"user_id" gorm:"not null;index"`
	OrderID *uint            `json:"order_id"`
	Title   string           `json:"title" gorm:"not null"`
	Message string           `json:"message"`
	Type    NotificationType `json:"type" gorm:"not null;default:'order'"`
	Read    bool             `json:"read" gorm:"default:false"`
	// DedupeKey makes fan-out idempotent: one row per (order, recipient,
	// event) no matter how many times the emit is retried.
	DedupeKey string    `json:"-" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}
