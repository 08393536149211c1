package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edulabs/checklist/core/user"
)

const (
	sessionCookieName = "sessionId"
	userIDCookieName  = "userID"
	emailCookieName   = "email"
	isAdminCookieName = "isAdmin"

	contextSessionKey = "session"
)

// setSessionCookies surfaces a fresh session to the client: the opaque token
// plus the user id, email and admin flag, all expiring with the session.
func setSessionCookies(ctx echo.Context, sess user.Session, ttl time.Duration) {
	expires := sess.ExpiresAt(ttl)
	for _, cookie := range []*http.Cookie{
		{Name: sessionCookieName, Value: sess.ID},
		{Name: userIDCookieName, Value: strconv.Itoa(sess.UserID)},
		{Name: emailCookieName, Value: sess.Email},
		{Name: isAdminCookieName, Value: strconv.FormatBool(sess.IsAdmin)},
	} {
		cookie.Path = "/"
		cookie.Expires = expires
		ctx.SetCookie(cookie)
	}
}

// sessionMiddleware resolves the sessionId cookie to a live server-side
// session record. Cookie expiry alone is not trusted; the record's own age
// is checked on every request.
func sessionMiddleware(svc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			cookie, err := ctx.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				return errUnauthorized
			}

			sess, err := svc.Authenticate(ctx.Request().Context(), cookie.Value)
			if err != nil {
				if errors.Cause(err) == user.ErrSessionNotFound {
					return errUnauthorized
				}
				return errors.Wrap(err, "authenticating session")
			}

			ctx.Set(contextSessionKey, sess)
			return next(ctx)
		}
	}
}
