package config

import (
	"os"
	"strconv"
	"time"

	security "github.com/Hany173g/OtakuZone-sub001/tools/security"
)

// insecureDefaultSecret keeps local development working without any env.
// Anything deployed for real must set OTAKU_SECRET.
const insecureDefaultSecret = "otakuzone-dev-secret-change-me"

type AppConfig struct {
	Env       string // "production" or anything else
	Port      int
	Secret    []byte
	MongoURI  string
	MongoDB   string
	RedisAddr string
	RedisPass string

	// Realtime is a tri-state override for the websocket layer:
	// "" follows the environment default (on outside production),
	// "on"/"off" force it.
	Realtime string

	SessionTTL time.Duration
	SocketTTL  time.Duration
}

// Load reads the whole configuration from the environment.
func Load() AppConfig {
	cfg := AppConfig{
		Env:        getenv("OTAKU_ENV", ""),
		Port:       getint("OTAKU_PORT", 8080),
		Secret:     []byte(getenv("OTAKU_SECRET", insecureDefaultSecret)),
		MongoURI:   getenv("OTAKU_MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:    getenv("OTAKU_MONGO_DB", "otakuzone"),
		RedisAddr:  getenv("OTAKU_REDIS_ADDR", ""),
		RedisPass:  getenv("OTAKU_REDIS_PASS", ""),
		Realtime:   getenv("OTAKU_REALTIME", ""),
		SessionTTL: 7 * 24 * time.Hour,
		SocketTTL:  2 * time.Hour,
	}
	return cfg
}

func (c AppConfig) Production() bool { return c.Env == "production" }

// RealtimeEnabled resolves the feature flag: explicit override first, then
// on outside production and off in production.
func (c AppConfig) RealtimeEnabled() bool {
	switch c.Realtime {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}
	return !c.Production()
}

// SessionJWT are the signing options for HTTP session tokens.
func (c AppConfig) SessionJWT() security.Options {
	o := security.DefaultOptions(c.Secret)
	o.TTL = c.SessionTTL
	return o
}

// SocketJWT are the signing options for realtime credentials.
func (c AppConfig) SocketJWT() security.Options {
	o := security.DefaultOptions(c.Secret)
	o.TTL = c.SocketTTL
	return o
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
