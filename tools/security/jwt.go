package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Token scopes. A leaked socket token must not be replayable against the
// HTTP API and a session token must not open a websocket, so the two kinds
// carry distinct scope claims and verifiers demand the expected one.
const (
	ScopeSession = "session"
	ScopeSocket  = "socket"
)

var (
	ErrTokenInvalid  = errors.New("invalid token")
	ErrScopeMismatch = errors.New("token scope mismatch")
	ErrMissingSub    = errors.New("token missing sub claim")
)

// Options controls signing and TTL.
type Options struct {
	Secret []byte        // HMAC key, from env in any real deployment
	Alg    string        // HS256/HS384/HS512 (default HS256)
	TTL    time.Duration // token lifetime (default 2h)
}

func DefaultOptions(secret []byte) Options {
	return Options{Secret: secret, Alg: "HS256", TTL: 2 * time.Hour}
}

// Claims is the verified identity a token carries.
type Claims struct {
	UserID string
	Scope  string
	Expiry time.Time
}

// Issue signs a token for userID with the given scope.
func Issue(opts Options, userID, scope string) (token string, expireAt time.Time, err error) {
	method, err := signingMethod(opts.Alg)
	if err != nil {
		return "", time.Time{}, err
	}
	if opts.TTL == 0 {
		opts.TTL = 2 * time.Hour
	}
	now := time.Now()
	exp := now.Add(opts.TTL)

	claims := jwtlib.MapClaims{
		"sub":   userID,
		"scope": scope,
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"exp":   exp.Unix(),
	}
	tok := jwtlib.NewWithClaims(method, claims)
	signed, err := tok.SignedString(opts.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify parses the token, checks the HMAC signature and expiry, and
// requires the expected scope and a non-empty sub claim.
func Verify(opts Options, token, wantScope string) (*Claims, error) {
	if _, err := signingMethod(opts.Alg); err != nil {
		return nil, err
	}
	parsed, err := jwtlib.Parse(token, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected alg: %v", t.Header["alg"])
		}
		return opts.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	mc, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	sub, _ := mc["sub"].(string)
	if sub == "" {
		return nil, ErrMissingSub
	}
	scope, _ := mc["scope"].(string)
	if wantScope != "" && scope != wantScope {
		return nil, ErrScopeMismatch
	}
	c := &Claims{UserID: sub, Scope: scope}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.Expiry = exp.Time
	}
	return c, nil
}

func signingMethod(alg string) (jwtlib.SigningMethod, error) {
	switch strings.ToUpper(strings.TrimSpace(alg)) {
	case "", "HS256":
		return jwtlib.SigningMethodHS256, nil
	case "HS384":
		return jwtlib.SigningMethodHS384, nil
	case "HS512":
		return jwtlib.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("unsupported alg: %s (use HS256/HS384/HS512)", alg)
	}
}
