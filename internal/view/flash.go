package view

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
)

const flashCookie = "flash"

var flashSecret []byte

// SetSecret configures the key used to sign flash cookies. Must be called
// once at startup before any flash is set or read.
func SetSecret(secret []byte) { flashSecret = secret }

// FlashMessage is a one-shot notice shown on the next rendered page.
// Category matches the alert style: "success" or "danger".
type FlashMessage struct {
	Category string
	Message  string
}

// Flashes builds an in-page flash list for handlers that redisplay a page in
// the same response. Flash cookies only surface after a redirect, so
// flash-then-render paths pass the message straight into the render data.
func Flashes(category, message string) []FlashMessage {
	return []FlashMessage{{Category: category, Message: message}}
}

// Flash queues a message for the next page render via a signed cookie. Use
// together with a redirect; for a same-response redisplay use Flashes.
func Flash(w http.ResponseWriter, category, message string) {
	payload := base64.RawURLEncoding.EncodeToString([]byte(category + "|" + message))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    payload + "." + sign(payload),
		Path:     "/",
		HttpOnly: true,
	})
}

// PopFlashes reads and clears any pending flash message. Tampered or
// malformed cookies are silently discarded.
func PopFlashes(w http.ResponseWriter, r *http.Request) []FlashMessage {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	payload, sig, ok := strings.Cut(c.Value, ".")
	if !ok || !hmac.Equal([]byte(sig), []byte(sign(payload))) {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil
	}
	category, message, ok := strings.Cut(string(raw), "|")
	if !ok {
		return nil
	}
	return []FlashMessage{{Category: category, Message: message}}
}

func sign(payload string) string {
	mac := hmac.New(sha256.New, flashSecret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
