package handlers_test

import (
	"testing"
	"time"

	"fooddrop-api/config"
	"fooddrop-api/models"
)

func TestOTPLoginScenario(t *testing.T) {
	r, stub := setupTest(t)

	// Request a code for a brand-new phone.
	w := do(t, r, "POST", "/api/auth/send-otp", "", map[string]string{"phone": "+1000"})
	if w.Code != 200 {
		t.Fatalf("send-otp: status %d, body %s", w.Code, w.Body.String())
	}
	code := stub.lastCode(t)

	var stored models.OTP
	if err := config.DB.Where("phone = ?", "+1000").First(&stored).Error; err != nil {
		t.Fatalf("otp row not stored: %v", err)
	}
	if stored.Verified {
		t.Fatal("fresh code must be unverified")
	}

	// Wrong code is indistinguishable from no code.
	w = do(t, r, "POST", "/api/auth/verify-otp", "", map[string]string{"phone": "+1000", "code": "000000"})
	if w.Code != 404 {
		t.Fatalf("wrong code: status %d, want 404", w.Code)
	}

	// Right code logs in and creates the user with the default role.
	w = do(t, r, "POST", "/api/auth/verify-otp", "", map[string]string{"phone": "+1000", "code": code})
	if w.Code != 200 {
		t.Fatalf("verify: status %d, body %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["token"] == nil || body["token"] == "" {
		t.Fatal("no token in verify response")
	}
	user := body["user"].(map[string]interface{})
	if user["role"] != "customer" {
		t.Fatalf("role = %v, want customer", user["role"])
	}

	var count int64
	config.DB.Model(&models.User{}).Where("phone = ?", "+1000").Count(&count)
	if count != 1 {
		t.Fatalf("got %d user rows, want 1", count)
	}

	// The code is consumed exactly once.
	w = do(t, r, "POST", "/api/auth/verify-otp", "", map[string]string{"phone": "+1000", "code": code})
	if w.Code != 400 {
		t.Fatalf("reused code: status %d, want 400", w.Code)
	}

	// Logging in again does not create a second user.
	do(t, r, "POST", "/api/auth/send-otp", "", map[string]string{"phone": "+1000"})
	w = do(t, r, "POST", "/api/auth/verify-otp", "", map[string]string{"phone": "+1000", "code": stub.lastCode(t)})
	if w.Code != 200 {
		t.Fatalf("second login: status %d", w.Code)
	}
	config.DB.Model(&models.User{}).Where("phone = ?", "+1000").Count(&count)
	if count != 1 {
		t.Fatalf("got %d user rows after second login, want 1", count)
	}
}

func TestNewCodeInvalidatesPrevious(t *testing.T) {
	r, stub := setupTest(t)

	do(t, r, "POST", "/api/auth/send-otp", "", map[string]string{"phone": "+1001"})
	first := stub.lastCode(t)

	do(t, r, "POST", "/api/auth/send-otp", "", map[string]string{"phone": "+1001"})
	second := stub.lastCode(t)

	var count int64
	config.DB.Model(&models.OTP{}).Where("phone = ?", "+1001").Count(&count)
	if count != 1 {
		t.Fatalf("got %d live otp rows, want 1", count)
	}

	// The old code is gone even if it happens to match the new one's digits.
	if first != second {
		w := do(t, r, "POST", "/api/auth/verify-otp", "", map[string]string{"phone": "+1001", "code": first})
		if w.Code != 404 {
			t.Fatalf("stale code: status %d, want 404", w.Code)
		}
	}

	w := do(t, r, "POST", "/api/auth/verify-otp", "", map[string]string{"phone": "+1001", "code": second})
	if w.Code != 200 {
		t.Fatalf("fresh code: status %d, body %s", w.Code, w.Body.String())
	}
}

func TestSendOTPValidation(t *testing.T) {
	r, _ := setupTest(t)

	w := do(t, r, "POST", "/api/auth/send-otp", "", map[string]string{})
	if w.Code != 400 {
		t.Fatalf("empty phone: status %d, want 400", w.Code)
	}
}

func TestSendOTPFailsOpenOnDeliveryError(t *testing.T) {
	r, stub := setupTest(t)
	stub.fail = true

	w := do(t, r, "POST", "/api/auth/send-otp", "", map[string]string{"phone": "+1002"})
	if w.Code != 502 {
		t.Fatalf("delivery failure: status %d, want 502", w.Code)
	}

	// The code was stored before the delivery attempt, not dropped.
	var count int64
	config.DB.Model(&models.OTP{}).Where("phone = ?", "+1002").Count(&count)
	if count != 1 {
		t.Fatalf("got %d otp rows, want 1", count)
	}
}

func TestVerifyOTPAppliesNameAndRole(t *testing.T) {
	r, stub := setupTest(t)

	do(t, r, "POST", "/api/auth/send-otp", "", map[string]string{"phone": "+1003"})
	w := do(t, r, "POST", "/api/auth/verify-otp", "", map[string]string{
		"phone": "+1003", "code": stub.lastCode(t), "name": "Grace Hopper", "role": "driver",
	})
	if w.Code != 200 {
		t.Fatalf("verify: status %d, body %s", w.Code, w.Body.String())
	}

	var user models.User
	config.DB.Where("phone = ?", "+1003").First(&user)
	if user.Name != "Grace Hopper" || user.Role != models.RoleDriver {
		t.Fatalf("user = %+v, want name Grace Hopper role driver", user)
	}
}

func TestVerifyOTPRejectsUnknownRole(t *testing.T) {
	r, stub := setupTest(t)

	do(t, r, "POST", "/api/auth/send-otp", "", map[string]string{"phone": "+1004"})
	w := do(t, r, "POST", "/api/auth/verify-otp", "", map[string]string{
		"phone": "+1004", "code": stub.lastCode(t), "role": "admin",
	})
	if w.Code != 400 {
		t.Fatalf("bad role: status %d, want 400", w.Code)
	}
}

func TestVerifyOTPExpiry(t *testing.T) {
	r, stub := setupTest(t)

	do(t, r, "POST", "/api/auth/send-otp", "", map[string]string{"phone": "+1002"})
	code := stub.lastCode(t)

	// Age the stored code past its deadline.
	if err := config.DB.Model(&models.OTP{}).Where("phone = ?", "+1002").
		Update("expires_at", time.Now().Add(-time.Minute)).Error; err != nil {
		t.Fatalf("aging code: %v", err)
	}

	w := do(t, r, "POST", "/api/auth/verify-otp", "", map[string]string{"phone": "+1002", "code": code})
	if w.Code != 404 {
		t.Fatalf("expired code: status %d, want 404, body %s", w.Code, w.Body.String())
	}

	// A consumed code reports consumed even after it expires.
	if err := config.DB.Model(&models.OTP{}).Where("phone = ?", "+1002").
		Update("verified", true).Error; err != nil {
		t.Fatalf("consuming code: %v", err)
	}
	w = do(t, r, "POST", "/api/auth/verify-otp", "", map[string]string{"phone": "+1002", "code": code})
	if w.Code != 400 {
		t.Fatalf("expired consumed code: status %d, want 400, body %s", w.Code, w.Body.String())
	}
}
