// Package notifier is the single fan-out point for order events. Delivery is
// best-effort: a failed row never rolls back the order mutation that caused
// it, and the dedupe key makes retried emits idempotent per
// (order, recipient, event).
package notifier

import (
	"fmt"

	"fooddrop-api/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipientKind selects the message template for a recipient.
type RecipientKind string

const (
	KindCustomer RecipientKind = "customer"
	KindStaff    RecipientKind = "staff"
	KindDriver   RecipientKind = "driver"
)

type Recipient struct {
	UserID uint
	Kind   RecipientKind
}

// Event renders a notification for a given recipient and names itself for
// deduplication.
type Event interface {
	OrderID() uint
	Name() string
	Render(r Recipient) (title, message string)
}

// OrderCreated fires once per new order, to the customer and every kitchen
// staff member of the restaurant.
type OrderCreated struct {
	Order        *models.Order
	CustomerName string
}

func (e OrderCreated) OrderID() uint { return e.Order.ID }
func (e OrderCreated) Name() string  { return "created" }

func (e OrderCreated) Render(r Recipient) (string, string) {
	if r.Kind == KindStaff {
		return "New Order", fmt.Sprintf("New order %s from %s needs preparation.",
			e.Order.OrderNumber, e.CustomerName)
	}
	return "Order Created", fmt.Sprintf("Your order %s has been created and is being processed.",
		e.Order.OrderNumber)
}

// StatusChanged fires on every lifecycle transition.
type StatusChanged struct {
	Order *models.Order
	From  models.OrderStatus
	To    models.OrderStatus
}

func (e StatusChanged) OrderID() uint { return e.Order.ID }
func (e StatusChanged) Name() string  { return fmt.Sprintf("status:%s->%s", e.From, e.To) }

func (e StatusChanged) Render(r Recipient) (string, string) {
	if r.Kind == KindDriver {
		return "Order Status Updated", fmt.Sprintf("Order %s status changed from %s to %s.",
			e.Order.OrderNumber, e.From, e.To)
	}
	return "Order Status Updated", fmt.Sprintf("Your order %s status changed from %s to %s.",
		e.Order.OrderNumber, e.From, e.To)
}

type Notifier struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func New(db *gorm.DB, log *zap.Logger) *Notifier {
	return &Notifier{DB: db, Log: log}
}

// Emit creates one unread Notification row per recipient. Conflicting dedupe
// keys are skipped silently (already delivered); other failures are logged
// and skipped.
func (n *Notifier) Emit(event Event, recipients []Recipient) {
	orderID := event.OrderID()
	for _, r := range recipients {
		title, message := event.Render(r)
		row := models.Notification{
			UserID:    r.UserID,
			OrderID:   &orderID,
			Title:     title,
			Message:   message,
			Type:      models.NotificationOrder,
			DedupeKey: fmt.Sprintf("order:%d:user:%d:%s", orderID, r.UserID, event.Name()),
		}
		err := n.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
		if err != nil {
			n.Log.Warn("notification delivery failed",
				zap.Uint("order_id", orderID),
				zap.Uint("user_id", r.UserID),
				zap.String("event", event.Name()),
				zap.Error(err))
		}
	}
}
