package flash

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndPop(t *testing.T) {
	app := fiber.New()
	app.Post("/set", func(c *fiber.Ctx) error {
		Set(c, KindSuccess, "HOORAY.. You successfully minted!")
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/pop", func(c *fiber.Ctx) error {
		msg := Pop(c)
		if msg == nil {
			return c.SendString("none")
		}
		return c.SendString(string(msg.Kind) + ":" + msg.Text)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/set", nil))
	require.NoError(t, err)
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/pop", nil)
	req.AddCookie(cookies[0])
	resp, err = app.Test(req)
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "success:HOORAY.. You successfully minted!", string(body))

	var cleared bool
	for _, ck := range resp.Cookies() {
		if ck.Name == CookieName && ck.Value == "" {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestPop_Garbage(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		if Pop(c) == nil {
			return c.SendString("none")
		}
		return c.SendString("some")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "%%%"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "none", string(body))
}
