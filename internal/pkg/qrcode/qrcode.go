// Package qrcode issues the rotating codes shown at the shop entrance.
package qrcode

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

var ErrInvalidSecret = errors.New("qr secret must be non-empty base32")

// Code is what the entrance display renders.
type Code struct {
	Code      string    `json:"code"`
	Payload   string    `json:"payload"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Generator struct {
	secret string
	period uint
	shop   string
}

// New validates secret by deriving one code from it.
func New(secret string, period time.Duration, shop string) (*Generator, error) {
	secret = strings.ToUpper(strings.TrimSpace(secret))
	if secret == "" {
		return nil, ErrInvalidSecret
	}
	if period < time.Second {
		period = 30 * time.Second
	}

	g := &Generator{secret: secret, period: uint(period / time.Second), shop: shop}
	if _, err := g.code(time.Now()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}
	return g, nil
}

// GenerateSecret creates a fresh base32 secret for QR_SECRET.
func GenerateSecret(shop string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      shop,
		AccountName: "entrance",
	})
	if err != nil {
		return "", err
	}
	return key.Secret(), nil
}

func (g *Generator) opts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    g.period,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

func (g *Generator) code(now time.Time) (string, error) {
	return totp.GenerateCodeCustom(g.secret, now, g.opts())
}

// Current returns the code valid at now.
func (g *Generator) Current(now time.Time) (Code, error) {
	c, err := g.code(now)
	if err != nil {
		return Code{}, err
	}

	step := int64(g.period)
	expires := time.Unix((now.Unix()/step+1)*step, 0).In(now.Location())

	payload := url.URL{
		Scheme:   "attendance",
		Host:     "check-in",
		RawQuery: url.Values{"shop": {g.shop}, "code": {c}}.Encode(),
	}

	return Code{Code: c, Payload: payload.String(), ExpiresAt: expires}, nil
}

// Validate accepts the code of the current period or one period either side.
func (g *Generator) Validate(code string, now time.Time) bool {
	ok, err := totp.ValidateCustom(strings.TrimSpace(code), g.secret, now, g.opts())
	if err != nil {
		return false
	}
	return ok
}
