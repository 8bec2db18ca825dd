package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	postgresStorage "github.com/Badsnus/hakkon-clubs/internal/adapters/database/postgres"
	"github.com/Badsnus/hakkon-clubs/internal/adapters/database/redis"
	"github.com/Badsnus/hakkon-clubs/internal/domain/dto"
	"github.com/Badsnus/hakkon-clubs/pkg/logger"
	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type Config struct {
	Database   *gorm.DB
	Redis      *redis.Client
	SMTPDialer *gomail.Dialer
	Settings   Settings
}

type Settings struct {
	Debug     bool
	Timezone  string
	LogToFile bool
	LogsDir   string

	SMTPFrom   string
	SMTPDomain string

	Auth Auth

	// FreshnessWindow is how long a fetched snapshot is served from cache.
	FreshnessWindow time.Duration
	DeviceID        string
}

type Auth struct {
	JWTSecret       string
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	CodeTTL         time.Duration
	StateTTL        time.Duration
	RefreshInterval time.Duration
	ConfirmEmail    bool
	FirstLoginRole  dto.Role
	BcryptCost      int

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("settings.timezone", "UTC")
	v.SetDefault("settings.logs-dir", "logs")
	v.SetDefault("service.database.port", 5432)
	v.SetDefault("service.database.sslmode", "disable")
	v.SetDefault("service.redis.port", "6379")
	v.SetDefault("service.smtp.port", 587)
	v.SetDefault("auth.access-ttl", 15*time.Minute)
	v.SetDefault("auth.refresh-ttl", 30*24*time.Hour)
	v.SetDefault("auth.code-ttl", 10*time.Minute)
	v.SetDefault("auth.state-ttl", 10*time.Minute)
	v.SetDefault("auth.refresh-interval", time.Minute)
	v.SetDefault("auth.confirm-email", true)
	v.SetDefault("store.freshness-window", 5*time.Second)
	v.SetDefault("device.id", "default")
}

func readSettings(v *viper.Viper) (Settings, error) {
	settings := Settings{
		Debug:      v.GetBool("settings.debug"),
		Timezone:   v.GetString("settings.timezone"),
		LogToFile:  v.GetBool("settings.log-to-file"),
		LogsDir:    v.GetString("settings.logs-dir"),
		SMTPFrom:   v.GetString("service.smtp.email"),
		SMTPDomain: v.GetString("service.smtp.domain"),
		Auth: Auth{
			JWTSecret:          v.GetString("auth.jwt-secret"),
			AccessTTL:          v.GetDuration("auth.access-ttl"),
			RefreshTTL:         v.GetDuration("auth.refresh-ttl"),
			CodeTTL:            v.GetDuration("auth.code-ttl"),
			StateTTL:           v.GetDuration("auth.state-ttl"),
			RefreshInterval:    v.GetDuration("auth.refresh-interval"),
			ConfirmEmail:       v.GetBool("auth.confirm-email"),
			FirstLoginRole:     dto.Role(v.GetString("auth.first-login-role")),
			BcryptCost:         v.GetInt("auth.bcrypt-cost"),
			GoogleClientID:     v.GetString("auth.google.client-id"),
			GoogleClientSecret: v.GetString("auth.google.client-secret"),
			GoogleRedirectURL:  v.GetString("auth.google.redirect-url"),
		},
		FreshnessWindow: v.GetDuration("store.freshness-window"),
		DeviceID:        v.GetString("device.id"),
	}

	if settings.Auth.JWTSecret == "" {
		return Settings{}, fmt.Errorf("auth.jwt-secret is required")
	}
	if settings.Auth.FirstLoginRole != "" && !settings.Auth.FirstLoginRole.Valid() {
		return Settings{}, fmt.Errorf("auth.first-login-role: unknown role %q", settings.Auth.FirstLoginRole)
	}
	if settings.FreshnessWindow <= 0 {
		return Settings{}, fmt.Errorf("store.freshness-window must be positive")
	}
	if _, err := time.LoadLocation(settings.Timezone); err != nil {
		return Settings{}, fmt.Errorf("settings.timezone: %w", err)
	}
	return settings, nil
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}
}

func Get() *Config {
	initConfig()

	settings, err := readSettings(viper.GetViper())
	if err != nil {
		panic(err)
	}

	location, _ := time.LoadLocation(settings.Timezone)
	err = logger.Init(logger.Config{
		Debug:        settings.Debug,
		TimeLocation: location,
		LogToFile:    settings.LogToFile,
		LogsDir:      settings.LogsDir,
	})
	if err != nil {
		panic(err)
	}

	gormConfig := &gorm.Config{TranslateError: true}
	if settings.Debug {
		gormConfig.Logger = gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold: time.Second,
				LogLevel:      gormLogger.Info,
				Colorful:      true,
			},
		)
	}

	dsn := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%d sslmode=%s TimeZone=%s",
		viper.GetString("service.database.user"),
		viper.GetString("service.database.password"),
		viper.GetString("service.database.name"),
		viper.GetString("service.database.host"),
		viper.GetInt("service.database.port"),
		viper.GetString("service.database.sslmode"),
		settings.Timezone,
	)

	database, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		logger.Log.Panicf("Failed to connect to the database: %v", err)
	} else {
		logger.Log.Info("Successfully connected to the database")
	}

	errMigrate := database.AutoMigrate(postgresStorage.Migrations...)
	if errMigrate != nil {
		logger.Log.Panicf("Failed to migrate database: %v", errMigrate)
	}

	redisClient, err := redis.New(context.Background(), redis.Options{
		Host:     viper.GetString("service.redis.host"),
		Port:     viper.GetString("service.redis.port"),
		Password: viper.GetString("service.redis.password"),
	})
	if err != nil {
		logger.Log.Panicf("Failed to connect to redis: %v", err)
	} else {
		logger.Log.Info("Successfully connected to redis")
	}

	dialer := gomail.NewDialer(
		viper.GetString("service.smtp.host"),
		viper.GetInt("service.smtp.port"),
		viper.GetString("service.smtp.username"),
		viper.GetString("service.smtp.password"),
	)

	return &Config{
		Database:   database,
		Redis:      redisClient,
		SMTPDialer: dialer,
		Settings:   settings,
	}
}
