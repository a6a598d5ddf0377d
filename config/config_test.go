package config

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestFromViperDefaultsAndOverrides(t *testing.T) {
	v := viper.New()
	v.Set("APP_PORT", "9090")
	v.Set("JWT_SECRET", "s3cret")
	v.Set("JWT_ACCESS_EXPIRY", "1h")
	v.Set("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	v.Set("DB_MAX_OPEN_CONNS", 7)

	cfg, err := fromViper(v)
	if err != nil {
		t.Fatalf("fromViper: %v", err)
	}
	if cfg.App.Port != "9090" {
		t.Errorf("port = %q", cfg.App.Port)
	}
	if cfg.JWT.AccessExpiry != time.Hour {
		t.Errorf("access expiry = %v", cfg.JWT.AccessExpiry)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("origins = %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.DB.MaxOpenConns != 7 {
		t.Errorf("max open conns = %d", cfg.DB.MaxOpenConns)
	}
}

func TestFromViperBadExpiryFallsBack(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "s3cret")
	v.Set("JWT_ACCESS_EXPIRY", "soon")

	cfg, err := fromViper(v)
	if err != nil {
		t.Fatalf("fromViper: %v", err)
	}
	if cfg.JWT.AccessExpiry != 15*time.Minute {
		t.Errorf("access expiry = %v", cfg.JWT.AccessExpiry)
	}
}

func TestFromViperRequiresSecret(t *testing.T) {
	_, err := fromViper(viper.New())
	if !errors.Is(err, ErrMissingJWTSecret) {
		t.Fatalf("err = %v, want ErrMissingJWTSecret", err)
	}
}

func TestMigrationURL(t *testing.T) {
	c := DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "clinic", SSLMode: "disable"}
	want := "postgres://u:p@db:5432/clinic?sslmode=disable"
	if got := c.MigrationURL(); got != want {
		t.Errorf("MigrationURL() = %q, want %q", got, want)
	}
}

func TestDSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "clinic", SSLMode: "require"}
	want := "host=db user=u password=p dbname=clinic port=5432 sslmode=require TimeZone=UTC"
	if got := c.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
