package statemachine

import (
	"fooddrop-api/apperr"
	"fooddrop-api/models"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.UserRole
}

// validTransitions is the authoritative state machine definition.
// Kitchen staff own the preparation edges, drivers own the delivery edges,
// and any party may cancel an order that has not reached a terminal state.
var validTransitions = []Transition{
	// Kitchen accepts and prepares the order
	{From: models.StatusPending, To: models.StatusPreparing, Actor: models.RoleKitchenStaff},
	{From: models.StatusPreparing, To: models.StatusReady, Actor: models.RoleKitchenStaff},
	// Driver carries it the rest of the way
	{From: models.StatusReady, To: models.StatusPickingUp, Actor: models.RoleDriver},
	{From: models.StatusPickingUp, To: models.StatusDelivering, Actor: models.RoleDriver},
	{From: models.StatusDelivering, To: models.StatusDelivered, Actor: models.RoleDriver},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.UserRole
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	// Cancellation is reachable from every non-terminal state by every role.
	for _, from := range []models.OrderStatus{
		models.StatusPending, models.StatusPreparing, models.StatusReady,
		models.StatusPickingUp, models.StatusDelivering,
	} {
		for _, actor := range []models.UserRole{
			models.RoleCustomer, models.RoleDriver, models.RoleKitchenStaff,
		} {
			m[transitionKey{from, models.StatusCancelled, actor}] = true
		}
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	if !status.Terminal() && !seen[models.StatusCancelled] {
		nexts = append(nexts, models.StatusCancelled)
	}
	return nexts
}

// CanTransition checks if a given actor can move an order from one state to
// another, returning ErrInvalidTransition otherwise.
func CanTransition(from, to models.OrderStatus, actor models.UserRole) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return apperr.Wrap(apperr.ErrInvalidTransition,
		"%s → %s is not allowed for %s; valid next states from %s: %s",
		from, to, actor, from, describeValidFrom(from))
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
