package handlers_test

import (
	"fmt"
	"testing"

	"fooddrop-api/models"
)

func TestAddressBook(t *testing.T) {
	r, _ := setupTest(t)

	_, token := newUser(t, "+4000", "Ada", models.RoleCustomer)

	// Create a saved address and a recent one.
	w := do(t, r, "POST", "/api/addresses", token, map[string]interface{}{
		"label": "Home", "address": "1 Main St", "latitude": 41.0, "longitude": 29.0, "is_saved": true,
	})
	if w.Code != 201 {
		t.Fatalf("create: status %d, body %s", w.Code, w.Body.String())
	}
	w = do(t, r, "POST", "/api/addresses", token, map[string]interface{}{
		"label": "Office", "address": "2 Work Ave", "is_recent": true,
	})
	if w.Code != 201 {
		t.Fatalf("create: status %d", w.Code)
	}
	// Facets are independent: an address can be both saved and recent.
	w = do(t, r, "POST", "/api/addresses", token, map[string]interface{}{
		"label": "Gym", "address": "3 Fit Rd", "is_saved": true, "is_recent": true,
	})
	if w.Code != 201 {
		t.Fatalf("create: status %d", w.Code)
	}

	w = do(t, r, "GET", "/api/addresses", token, nil)
	if body := decode(t, w); body["count"].(float64) != 3 {
		t.Fatalf("list count = %v, want 3", body["count"])
	}
	w = do(t, r, "GET", "/api/addresses/saved", token, nil)
	if body := decode(t, w); body["count"].(float64) != 2 {
		t.Fatalf("saved count = %v, want 2", body["count"])
	}
	w = do(t, r, "GET", "/api/addresses/recent", token, nil)
	if body := decode(t, w); body["count"].(float64) != 2 {
		t.Fatalf("recent count = %v, want 2", body["count"])
	}
}

func TestAddressOwnershipScoping(t *testing.T) {
	r, _ := setupTest(t)

	owner, _ := newUser(t, "+4010", "Ada", models.RoleCustomer)
	addr := newAddress(t, owner.ID)
	_, otherToken := newUser(t, "+4011", "Eve", models.RoleCustomer)

	// Another user's address is indistinguishable from a missing one.
	path := fmt.Sprintf("/api/addresses/%d", addr.ID)
	for _, method := range []string{"GET", "DELETE"} {
		w := do(t, r, method, path, otherToken, nil)
		if w.Code != 404 {
			t.Fatalf("%s foreign address: status %d, want 404", method, w.Code)
		}
	}
	w := do(t, r, "PUT", path, otherToken, map[string]interface{}{"label": "Mine", "address": "stolen"})
	if w.Code != 404 {
		t.Fatalf("PUT foreign address: status %d, want 404", w.Code)
	}
}

func TestNotificationsEndpoint(t *testing.T) {
	r, _ := setupTest(t)

	customer, token := newUser(t, "+4020", "Ada", models.RoleCustomer)
	restaurant, items := newRestaurant(t, "Notify Nook")
	addr := newAddress(t, customer.ID)
	placeOrder(t, r, token, restaurant.ID, addr.ID, items)

	w := do(t, r, "GET", "/api/notifications", token, nil)
	body := decode(t, w)
	if body["count"].(float64) != 1 {
		t.Fatalf("count = %v, want 1", body["count"])
	}
	list := body["notifications"].([]interface{})
	first := list[0].(map[string]interface{})
	if first["read"].(bool) {
		t.Fatal("fresh notification should be unread")
	}
	id := uint(first["id"].(float64))

	w = do(t, r, "PUT", fmt.Sprintf("/api/notifications/%d/read", id), token, nil)
	if w.Code != 200 {
		t.Fatalf("mark read: status %d", w.Code)
	}
	w = do(t, r, "GET", "/api/notifications?unread=true", token, nil)
	if body := decode(t, w); body["count"].(float64) != 0 {
		t.Fatalf("unread count = %v, want 0", body["count"])
	}

	// Foreign notifications cannot be marked.
	_, otherToken := newUser(t, "+4021", "Eve", models.RoleCustomer)
	w = do(t, r, "PUT", fmt.Sprintf("/api/notifications/%d/read", id), otherToken, nil)
	if w.Code != 404 {
		t.Fatalf("foreign mark read: status %d, want 404", w.Code)
	}
}

func TestDriverProfileAutoCreate(t *testing.T) {
	r, _ := setupTest(t)

	_, token := newUser(t, "+4030", "Dash", models.RoleDriver)

	// First fetch creates an empty profile.
	w := do(t, r, "GET", "/api/driver/profile", token, nil)
	if w.Code != 200 {
		t.Fatalf("get profile: status %d", w.Code)
	}

	w = do(t, r, "PUT", "/api/driver/profile", token, map[string]interface{}{
		"vehicle_type": "motorcycle", "plate_number": "34-AB-123",
	})
	if w.Code != 200 {
		t.Fatalf("update profile: status %d", w.Code)
	}
	body := decode(t, w)
	profile := body["driver_profile"].(map[string]interface{})
	if profile["vehicle_type"] != "motorcycle" {
		t.Fatalf("vehicle_type = %v, want motorcycle", profile["vehicle_type"])
	}
}
