package middleware

// identity.go reads the caller identity that JWTAuth placed in the Echo
// context. Unauthenticated requests yield empty strings.

import "github.com/labstack/echo/v4"

// UserID returns the authenticated user's id or "".
func UserID(c echo.Context) string {
	s, _ := c.Get(CtxUserID).(string)
	return s
}

// Role returns the authenticated user's role or "".
func Role(c echo.Context) string {
	s, _ := c.Get(CtxRole).(string)
	return s
}

// subjectOrAnon is used where a key needs some identity even for guests.
func subjectOrAnon(c echo.Context) string {
	if id := UserID(c); id != "" {
		return id
	}
	return "anon"
}
