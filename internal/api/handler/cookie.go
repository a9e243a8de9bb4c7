package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieConfig describes the session cookie. CrossSite forces
// SameSite=None and Secure, which browsers require for credentialed
// cross-origin requests.
type CookieConfig struct {
	Name      string
	TTL       time.Duration
	Secure    bool
	CrossSite bool
}

func (cc CookieConfig) base() *http.Cookie {
	cookie := &http.Cookie{
		Name:     cc.Name,
		Path:     "/",
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if cc.CrossSite {
		cookie.SameSite = http.SameSiteNoneMode
		cookie.Secure = true
	}
	return cookie
}

func (cc CookieConfig) set(c echo.Context, token string, expires time.Time) {
	cookie := cc.base()
	cookie.Value = token
	cookie.Expires = expires
	cookie.MaxAge = int(cc.TTL.Seconds())
	c.SetCookie(cookie)
}

func (cc CookieConfig) clear(c echo.Context) {
	cookie := cc.base()
	cookie.Expires = time.Unix(0, 0)
	cookie.MaxAge = -1
	c.SetCookie(cookie)
}

// token returns the session token sent by the client, or "".
func (cc CookieConfig) token(c echo.Context) string {
	cookie, err := c.Cookie(cc.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
