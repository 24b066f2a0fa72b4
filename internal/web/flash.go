package web

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
)

// Flash categories, mirrored as CSS classes
const (
	FlashDanger = "danger"
	FlashInfo   = "info"
)

const (
	flashCookieName = "ytweb_flash"
	maxFlashes      = 5
)

// Flash is a one-shot message shown on the next rendered page. Key is a
// localization key.
type Flash struct {
	Category string `json:"c"`
	Key      string `json:"k"`
}

// flashStore keeps pending messages in an HMAC signed cookie
type flashStore struct {
	secret []byte
	secure bool
}

// newFlashStore uses secret, or a random key when it is empty
func newFlashStore(secret string, secure bool) (*flashStore, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
	}
	return &flashStore{secret: key, secure: secure}, nil
}

// Add appends a message to the pending ones
func (s *flashStore) Add(w http.ResponseWriter, r *http.Request, category, key string) {
	flashes := s.read(r)
	flashes = append(flashes, Flash{Category: category, Key: key})
	if len(flashes) > maxFlashes {
		flashes = flashes[len(flashes)-maxFlashes:]
	}

	payload, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	value := base64.RawURLEncoding.EncodeToString(payload)
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    value + "." + s.sign(value),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns and clears the pending messages
func (s *flashStore) Pop(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := s.read(r)
	if _, err := r.Cookie(flashCookieName); err == nil {
		http.SetCookie(w, &http.Cookie{
			Name:     flashCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   s.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return flashes
}

func (s *flashStore) read(r *http.Request) []Flash {
	c, err := r.Cookie(flashCookieName)
	if err != nil {
		return nil
	}

	value, sig, ok := strings.Cut(c.Value, ".")
	if !ok || !hmac.Equal([]byte(sig), []byte(s.sign(value))) {
		return nil
	}

	payload, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(payload, &flashes); err != nil {
		return nil
	}
	return flashes
}

func (s *flashStore) sign(value string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
