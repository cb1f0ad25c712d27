package config

import "testing"

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080},
		Auth:    AuthConfig{JWTSecret: "0123456789abcdef-secret"},
		Mail:    MailConfig{Provider: "console"},
		Storage: StorageConfig{Provider: "local"},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidate_ShortSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = "short"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for short jwt secret")
	}
}

func TestValidate_BadPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out-of-range port")
	}
}

func TestValidate_SendgridWithoutKey(t *testing.T) {
	cfg := validConfig()
	cfg.Mail.Provider = "sendgrid"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for sendgrid without key")
	}
}

func TestValidate_UnknownStorage(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Provider = "s3"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown storage provider")
	}
}

func TestValidate_CloudinaryWithoutURL(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Provider = "cloudinary"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for cloudinary without url")
	}
}

func TestDSN(t *testing.T) {
	c := &DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable", Timezone: "UTC"}
	want := "host=db port=5432 user=u password=p dbname=n sslmode=disable TimeZone=UTC"
	if got := c.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
