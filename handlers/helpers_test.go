package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fooddrop-api/config"
	"fooddrop-api/handlers"
	"fooddrop-api/middleware"
	"fooddrop-api/models"
	"fooddrop-api/notifier"
	"fooddrop-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// smsStub records outgoing messages so tests can read the issued code.
type smsStub struct {
	messages []string
	fail     bool
}

func (s *smsStub) Send(phone, message string) error {
	if s.fail {
		return errors.New("gateway down")
	}
	s.messages = append(s.messages, message)
	return nil
}

// lastCode extracts the 6-digit code from the most recent message.
func (s *smsStub) lastCode(t *testing.T) string {
	t.Helper()
	if len(s.messages) == 0 {
		t.Fatal("no sms sent")
	}
	msg := s.messages[len(s.messages)-1]
	return msg[len(msg)-6:]
}

func setupTest(t *testing.T) (*gin.Engine, *smsStub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	config.DB = db
	config.Active = &config.Settings{
		JWTSecret: []byte("test-secret"),
		OTPTTL:    5 * time.Minute,
	}

	stub := &smsStub{}
	handlers.SMS = stub
	handlers.Notify = notifier.New(db, zap.NewNop())

	r := gin.New()
	routes.SetupRoutes(r)
	return r, stub
}

// do performs a JSON request against the router.
func do(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

// newUser creates a user directly and returns it with a valid token.
func newUser(t *testing.T, phone, name string, role models.UserRole) (*models.User, string) {
	t.Helper()
	user := models.User{Phone: phone, Name: name, Role: role}
	if err := config.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := middleware.GenerateToken(&user)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return &user, token
}

// newRestaurant seeds a restaurant with two menu items.
func newRestaurant(t *testing.T, name string) (*models.Restaurant, []models.MenuItem) {
	t.Helper()
	restaurant := models.Restaurant{Name: name, IsActive: true, Rating: 4.5}
	if err := config.DB.Create(&restaurant).Error; err != nil {
		t.Fatalf("create restaurant: %v", err)
	}
	items := []models.MenuItem{
		{RestaurantID: restaurant.ID, Name: "Margherita", Description: "Tomato and mozzarella", Price: 9.50, Category: "pizza", IsAvailable: true},
		{RestaurantID: restaurant.ID, Name: "Tiramisu", Description: "Classic dessert", Price: 5.00, Category: "dessert", IsAvailable: true},
	}
	for i := range items {
		if err := config.DB.Create(&items[i]).Error; err != nil {
			t.Fatalf("create menu item: %v", err)
		}
	}
	return &restaurant, items
}

// newAddress seeds a delivery address for a user.
func newAddress(t *testing.T, userID uint) *models.DeliveryAddress {
	t.Helper()
	addr := models.DeliveryAddress{UserID: userID, Label: "Home", Address: "1 Main St"}
	if err := config.DB.Create(&addr).Error; err != nil {
		t.Fatalf("create address: %v", err)
	}
	return &addr
}

// linkStaff puts a kitchen_staff user on a restaurant's roster.
func linkStaff(t *testing.T, userID, restaurantID uint, position models.StaffPosition) *models.KitchenStaff {
	t.Helper()
	record := models.KitchenStaff{UserID: userID, RestaurantID: restaurantID, Position: position}
	if err := config.DB.Create(&record).Error; err != nil {
		t.Fatalf("link staff: %v", err)
	}
	return &record
}

// placeOrder creates an order over HTTP and returns its id and version.
func placeOrder(t *testing.T, r *gin.Engine, token string, restaurantID, addressID uint, items []models.MenuItem) uint {
	t.Helper()
	reqItems := make([]map[string]interface{}, 0, len(items))
	for _, it := range items {
		reqItems = append(reqItems, map[string]interface{}{"menu_item_id": it.ID, "quantity": 1})
	}
	w := do(t, r, "POST", "/api/orders", token, map[string]interface{}{
		"restaurant_id":       restaurantID,
		"delivery_address_id": addressID,
		"items":               reqItems,
	})
	if w.Code != 201 {
		t.Fatalf("place order: status %d, body %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	order := body["order"].(map[string]interface{})
	return uint(order["id"].(float64))
}
