package flash

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CookieName is the cookie carrying a one-shot notification to the next page render
const CookieName = "flash"

const maxAge = 60 * time.Second

// Kind selects the toast style
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Message is a toast waiting to be shown
type Message struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// Set stores msg for the next page render
func Set(c *fiber.Ctx, kind Kind, text string) {
	raw, err := json.Marshal(Message{Kind: kind, Text: text})
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		Expires:  time.Now().Add(maxAge),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Pop returns the pending message, if any, and clears it
func Pop(c *fiber.Ctx) *Message {
	value := c.Cookies(CookieName)
	if value == "" {
		return nil
	}
	c.ClearCookie(CookieName)

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Text == "" {
		return nil
	}
	return &msg
}
