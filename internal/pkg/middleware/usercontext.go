package middleware

import (
	"strings"

	"github.com/LukasWeidner/DishPatch/internal/pkg/session"
	"github.com/LukasWeidner/DishPatch/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
)

// Session keys written by the auth controller on login.
const (
	SessionKeyUserID   = "user_id"
	SessionKeyUserName = "user_name"
	SessionKeyIsAdmin  = "user_is_admin"
)

// UserContextMiddleware sets up the complete user context for every request.
// This centralizes session handling so controllers only read the typed
// UserContext from Locals.
func UserContextMiddleware(c *fiber.Ctx) error {
	// Provider webhooks are signature-verified, not session-authenticated.
	// Skip the session store entirely for them.
	if strings.HasPrefix(c.Path(), "/webhooks/") {
		return c.Next()
	}

	anonymous := func() error {
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
			IsLoggedIn: false,
			IsAdmin:    false,
		})
		c.Locals(usercontext.KeyFromProtected, false)
		c.Locals(usercontext.KeyIsAdmin, false)
		return c.Next()
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return anonymous()
	}

	userID := sess.Get(SessionKeyUserID)
	if userID == nil {
		return anonymous()
	}

	uid, ok := userID.(uint)
	if !ok {
		return anonymous()
	}

	name, _ := sess.Get(SessionKeyUserName).(string)
	isAdmin, _ := sess.Get(SessionKeyIsAdmin).(bool)

	c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
		UserID:     uid,
		Name:       name,
		IsLoggedIn: true,
		IsAdmin:    isAdmin,
	})
	c.Locals(usercontext.KeyFromProtected, true)
	c.Locals(usercontext.KeyIsAdmin, isAdmin)

	return c.Next()
}
