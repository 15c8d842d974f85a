// Package initdata verifies the signed launch payload ("init data") that the
// Telegram client passes to a mini-app, and extracts the user it describes.
//
// The payload is a form-urlencoded string. Its hash field holds
// hex(HMAC_SHA256(secret, check_string)), where secret is
// HMAC_SHA256(key="WebAppData", msg=bot_token) and check_string is every other
// key=value pair sorted by key and joined with newlines.
package initdata

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/Mugen-bitt/ai-finance-miniapp/internal/errors"
)

const (
	hashKey     = "hash"
	userKey     = "user"
	authDateKey = "auth_date"

	// secretKeyDomain separates the derived secret from the raw bot token.
	secretKeyDomain = "WebAppData"
)

// Identity is the user record embedded in the payload's user field.
type Identity struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	IsPremium    bool   `json:"is_premium,omitempty"`
	PhotoURL     string `json:"photo_url,omitempty"`
}

// Verifier checks init data signatures for one bot token.
// It holds no mutable state and is safe for concurrent use.
type Verifier struct {
	secretKey []byte
	maxAge    time.Duration
	now       func() time.Time
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithMaxAge rejects payloads whose auth_date is older than d.
// Zero (the default) disables the check.
func WithMaxAge(d time.Duration) Option {
	return func(v *Verifier) { v.maxAge = d }
}

// WithClock overrides the time source used by WithMaxAge.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) { v.now = now }
}

// NewVerifier derives the secret key for botToken.
// An empty token is a configuration fault.
func NewVerifier(botToken string, opts ...Option) (*Verifier, error) {
	if botToken == "" {
		return nil, apperrors.ErrConfiguration
	}
	v := &Verifier{
		secretKey: deriveSecretKey(botToken),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify validates the signature of raw and returns the embedded identity.
func (v *Verifier) Verify(raw string) (*Identity, error) {
	fields := parseFields(raw)

	received, ok := fields[hashKey]
	if !ok {
		return nil, apperrors.ErrMissingSignature
	}
	delete(fields, hashKey)

	expected := sign(v.secretKey, CheckString(fields))
	if !hmac.Equal([]byte(expected), []byte(received)) {
		return nil, apperrors.ErrInvalidSignature
	}

	if v.maxAge > 0 {
		authDate, err := strconv.ParseInt(fields[authDateKey], 10, 64)
		if err != nil || v.now().Sub(time.Unix(authDate, 0)) > v.maxAge {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidSignature, "expired payload")
		}
	}

	rawUser, ok := fields[userKey]
	if !ok {
		return nil, apperrors.ErrMalformedIdentity
	}
	var identity Identity
	if err := json.Unmarshal([]byte(rawUser), &identity); err != nil || identity.ID == 0 {
		return nil, apperrors.ErrMalformedIdentity
	}
	return &identity, nil
}

// CheckString builds the canonical newline-joined key=value string.
// The hash entry must already be removed.
func CheckString(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fields[k])
	}
	return b.String()
}

// Sign returns the hash a payload with the given values must carry to be
// accepted for botToken. Any hash entry in values is ignored.
func Sign(botToken string, values url.Values) string {
	fields := firstValues(values)
	delete(fields, hashKey)
	return sign(deriveSecretKey(botToken), CheckString(fields))
}

// Encode returns values as a signed payload string for botToken.
func Encode(botToken string, values url.Values) string {
	signed := url.Values{}
	for k, vs := range values {
		if k != hashKey {
			signed[k] = vs
		}
	}
	signed.Set(hashKey, Sign(botToken, values))
	return signed.Encode()
}

// parseFields decodes raw into a key -> value map. Only the first non-blank
// value of a repeated key is kept and keys with blank values are dropped,
// which is how the host platform's reference implementation reads the payload.
// Malformed pairs are skipped rather than failing the whole payload.
func parseFields(raw string) map[string]string {
	values, _ := url.ParseQuery(raw)
	return firstValues(values)
}

func firstValues(values url.Values) map[string]string {
	fields := make(map[string]string, len(values))
	for k, vs := range values {
		for _, v := range vs {
			if v != "" {
				fields[k] = v
				break
			}
		}
	}
	return fields
}

func deriveSecretKey(botToken string) []byte {
	mac := hmac.New(sha256.New, []byte(secretKeyDomain))
	mac.Write([]byte(botToken))
	return mac.Sum(nil)
}

func sign(secretKey []byte, checkString string) string {
	mac := hmac.New(sha256.New, secretKey)
	mac.Write([]byte(checkString))
	return hex.EncodeToString(mac.Sum(nil))
}
