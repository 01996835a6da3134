package config

import (
	"log"
	"time"

	"fooddrop-api/models"

	"github.com/glebarez/sqlite"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Settings holds everything read from the environment.
type Settings struct {
	Port        string
	GinMode     string
	DatabaseURL string // when set, Postgres; otherwise embedded SQLite
	SQLitePath  string
	JWTSecret   []byte
	OTPTTL      time.Duration
	SMSAPIURL   string
	SMSAPIToken string
	SMSTimeout  time.Duration
	LogLevel    string
}

// Load reads settings from the environment with sensible defaults.
func Load() (*Settings, error) {
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("SQLITE_PATH", "fooddrop.db")
	viper.SetDefault("JWT_SECRET", "fooddrop_super_secret_2024")
	viper.SetDefault("OTP_TTL", "5m")
	viper.SetDefault("SMS_API_URL", "")
	viper.SetDefault("SMS_API_TOKEN", "")
	viper.SetDefault("SMS_TIMEOUT", "5s")
	viper.SetDefault("LOG_LEVEL", "info")

	ttl, err := time.ParseDuration(viper.GetString("OTP_TTL"))
	if err != nil {
		return nil, err
	}
	smsTimeout, err := time.ParseDuration(viper.GetString("SMS_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	return &Settings{
		Port:        viper.GetString("PORT"),
		GinMode:     viper.GetString("GIN_MODE"),
		DatabaseURL: viper.GetString("DATABASE_URL"),
		SQLitePath:  viper.GetString("SQLITE_PATH"),
		JWTSecret:   []byte(viper.GetString("JWT_SECRET")),
		OTPTTL:      ttl,
		SMSAPIURL:   viper.GetString("SMS_API_URL"),
		SMSAPIToken: viper.GetString("SMS_API_TOKEN"),
		SMSTimeout:  smsTimeout,
		LogLevel:    viper.GetString("LOG_LEVEL"),
	}, nil
}

// Active is the settings instance the handlers read from. InitDB sets it;
// tests overwrite it with test values.
var Active = &Settings{
	JWTSecret: []byte("fooddrop_super_secret_2024"),
	OTPTTL:    5 * time.Minute,
}

// InitDB connects to the configured database and migrates all models.
func InitDB(cfg *Settings) {
	Active = cfg

	var err error
	if cfg.DatabaseURL != "" {
		DB, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
	} else {
		DB, err = gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
	}
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	log.Println("✅ Database connected and migrated successfully")
}

// Migrate applies the schema for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.OTP{},
		&models.DeliveryAddress{},
		&models.DriverProfile{},
		&models.Restaurant{},
		&models.Tag{},
		&models.MenuItem{},
		&models.KitchenStaff{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
		&models.Notification{},
	)
}
