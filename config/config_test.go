package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"OTAKU_ENV", "OTAKU_PORT", "OTAKU_SECRET",
		"OTAKU_MONGO_URI", "OTAKU_MONGO_DB", "OTAKU_REALTIME",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Production() {
		t.Error("Production = true with no OTAKU_ENV")
	}
	if string(cfg.Secret) != insecureDefaultSecret {
		t.Errorf("Secret = %q", cfg.Secret)
	}
	if cfg.MongoDB != "otakuzone" {
		t.Errorf("MongoDB = %q", cfg.MongoDB)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("OTAKU_ENV", "production")
	t.Setenv("OTAKU_PORT", "9090")
	t.Setenv("OTAKU_SECRET", "s3cr3t")
	t.Setenv("OTAKU_MONGO_URI", "mongodb://db:27017")

	cfg := Load()
	if !cfg.Production() {
		t.Error("Production = false")
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if string(cfg.Secret) != "s3cr3t" {
		t.Errorf("Secret = %q", cfg.Secret)
	}
	if cfg.MongoURI != "mongodb://db:27017" {
		t.Errorf("MongoURI = %q", cfg.MongoURI)
	}
}

func TestBadPortFallsBack(t *testing.T) {
	t.Setenv("OTAKU_PORT", "not-a-number")
	if got := Load().Port; got != 8080 {
		t.Errorf("Port = %d, want 8080", got)
	}
}

func TestRealtimeEnabled(t *testing.T) {
	cases := []struct {
		name     string
		env      string
		realtime string
		want     bool
	}{
		{"default dev", "", "", true},
		{"default production", "production", "", false},
		{"forced on in production", "production", "on", true},
		{"forced off in dev", "", "off", false},
		{"truthy literal", "production", "1", true},
		{"falsy literal", "", "false", false},
		{"unknown value follows env", "production", "maybe", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := AppConfig{Env: tc.env, Realtime: tc.realtime}
			if got := cfg.RealtimeEnabled(); got != tc.want {
				t.Errorf("RealtimeEnabled = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestJWTOptions(t *testing.T) {
	cfg := AppConfig{Secret: []byte("k"), SessionTTL: 7 * 24 * time.Hour, SocketTTL: 2 * time.Hour}

	if o := cfg.SessionJWT(); o.TTL != 7*24*time.Hour || string(o.Secret) != "k" {
		t.Errorf("SessionJWT = %+v", o)
	}
	if o := cfg.SocketJWT(); o.TTL != 2*time.Hour {
		t.Errorf("SocketJWT TTL = %v, want 2h", o.TTL)
	}
}
