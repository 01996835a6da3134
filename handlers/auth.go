package handlers

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"fooddrop-api/apperr"
	"fooddrop-api/config"
	"fooddrop-api/middleware"
	"fooddrop-api/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type SendOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type VerifyOTPRequest struct {
	Phone string          `json:"phone" binding:"required"`
	Code  string          `json:"code" binding:"required"`
	Name  string          `json:"name"`
	Role  models.UserRole `json:"role"`
}

// SendOTP issues a fresh login code for a phone number. Any previously
// unconsumed code for that phone is invalidated first, so at most one live
// code exists per phone at any time.
func SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrInvalidInput, "phone number is required"))
		return
	}

	code := fmt.Sprintf("%06d", 100000+rand.Intn(900000))
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate code"})
		return
	}

	// Invalidate prior codes before storing the new one.
	if err := config.DB.Where("phone = ?", req.Phone).Delete(&models.OTP{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store code"})
		return
	}

	otp := models.OTP{
		Phone:     req.Phone,
		CodeHash:  string(hash),
		ExpiresAt: time.Now().Add(config.Active.OTPTTL),
	}
	if err := config.DB.Create(&otp).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store code"})
		return
	}

	// Fail open on delivery problems: the stored code stays valid, the
	// caller learns delivery did not happen.
	if err := SMS.Send(req.Phone, "Your login code is "+code); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to deliver code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Code sent successfully"})
}

// VerifyOTP consumes a login code exactly once, creating the user on first
// login and returning a session token.
func VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrInvalidInput, "phone and code are required"))
		return
	}
	if req.Role != "" && !models.ValidRole(req.Role) {
		respondError(c, apperr.Wrap(apperr.ErrInvalidInput, "invalid role %q", req.Role))
		return
	}

	// At most one code exists per phone; issuance deletes the older ones.
	var otp models.OTP
	if err := config.DB.Where("phone = ?", req.Phone).
		Order("created_at desc").First(&otp).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrNotFound, "invalid code"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(req.Code)); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrNotFound, "invalid code"))
		return
	}
	if otp.Verified {
		respondError(c, apperr.Wrap(apperr.ErrAlreadyConsumed, "code for %s", req.Phone))
		return
	}
	if !otp.Live(time.Now()) {
		respondError(c, apperr.Wrap(apperr.ErrNotFound, "code expired"))
		return
	}

	// Compare-and-swap on the verified flag so two concurrent verifies
	// cannot both win.
	res := config.DB.Model(&models.OTP{}).
		Where("id = ? AND verified = ?", otp.ID, false).
		Update("verified", true)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to consume code"})
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apperr.Wrap(apperr.ErrAlreadyConsumed, "code for %s", req.Phone))
		return
	}

	user, err := getOrCreateUser(req.Phone, req.Name, req.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// getOrCreateUser looks the user up by phone; first login creates the row,
// applying the optional name and role.
func getOrCreateUser(phone, name string, role models.UserRole) (*models.User, error) {
	var user models.User
	err := config.DB.Where("phone = ?", phone).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if role == "" {
		role = models.RoleCustomer
	}
	user = models.User{Phone: phone, Name: name, Role: role}
	if err := config.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetProfile returns the authenticated user's profile
func GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrNotFound, "user"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile updates the caller's mutable profile fields. Phone and role
// are immutable here.
func UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrNotFound, "user"))
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrInvalidInput, "name is required"))
		return
	}

	config.DB.Model(&user).Update("name", req.Name)
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": user})
}
