package http

import (
	stdhttp "net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"
)

const (
	sessionCookieName = "portal_session"
	csrfCookieName    = "portal_csrf"
	csrfHeaderName    = "X-CSRF-Token"

	adminPathPrefix = "/api/admin/"

	// The guard never reveals which check failed.
	unauthorizedMessage = `{"error":"authentication required"}`
)

// adminGuardMiddleware enforces the session cookie on every admin request
// and the double-submit CSRF pair on mutating ones. It is stateless: both
// checks are exact string comparisons against the request itself.
func (s *Server) adminGuardMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		req, _ := humago.Unwrap(ctx)
		if req == nil || !strings.HasPrefix(req.URL.Path, adminPathPrefix) {
			next(ctx)
			return
		}

		if !s.sessionValid(req) {
			s.rejectUnauthorized(ctx, req, "missing or invalid session")
			return
		}

		if isMutating(req.Method) && !csrfValid(req) {
			s.rejectUnauthorized(ctx, req, "csrf check failed")
			return
		}

		next(ctx)
	}
}

func (s *Server) sessionValid(req *stdhttp.Request) bool {
	cookie, err := req.Cookie(sessionCookieName)
	if err != nil {
		return false
	}
	return cookie.Value != "" && cookie.Value == s.auth.SessionToken
}

func csrfValid(req *stdhttp.Request) bool {
	cookie, err := req.Cookie(csrfCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	return req.Header.Get(csrfHeaderName) == cookie.Value
}

func isMutating(method string) bool {
	switch method {
	case stdhttp.MethodPost, stdhttp.MethodPut, stdhttp.MethodDelete, stdhttp.MethodPatch:
		return true
	}
	return false
}

func (s *Server) rejectUnauthorized(ctx huma.Context, req *stdhttp.Request, reason string) {
	if s.logger != nil {
		fields := logrus.Fields{
			"path":   req.URL.Path,
			"method": req.Method,
			"reason": reason,
		}
		if requestID := RequestIDFromContext(ctx.Context()); requestID != "" {
			fields["request_id"] = requestID
		}
		s.logger.WithFields(fields).Warn("admin request rejected")
	}

	ctx.SetStatus(stdhttp.StatusUnauthorized)
	ctx.SetHeader("Content-Type", jsonContentType)
	_, _ = ctx.BodyWriter().Write([]byte(unauthorizedMessage))
}
