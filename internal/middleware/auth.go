package middleware

import (
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/memodb-io/docledger/internal/modules/serializer"
	"github.com/memodb-io/docledger/internal/pkg/utils/secrets"
	"github.com/memodb-io/docledger/internal/pkg/utils/tokens"
)

const (
	// AuthorIDKey is the gin context key holding the caller's uuid.UUID.
	AuthorIDKey    = "author_id"
	AuthorIDHeader = "X-Author-Id"
)

// ServiceCredential is the single API token the service accepts. Lookup is the
// HMAC of the token secret; PHC is its argon2id hash, checked only when
// VerifyPHC is set.
type ServiceCredential struct {
	Prefix    string
	Pepper    string
	Lookup    string
	PHC       string
	VerifyPHC bool

	verified atomic.Bool
}

// ServiceAuth authenticates upstream callers with the service bearer token and
// resolves the acting author from the X-Author-Id header.
func ServiceAuth(cred *ServiceCredential) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctx, authSpan := otel.Tracer("middleware").Start(ctx, "service_auth",
			trace.WithAttributes(attribute.String("middleware", "service_auth")))

		reject := func() {
			authSpan.SetAttributes(attribute.Bool("authenticated", false))
			authSpan.End()
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
		}

		if cred == nil || cred.Lookup == "" {
			reject()
			return
		}

		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			reject()
			return
		}
		secret, ok := tokens.ParseToken(strings.TrimPrefix(auth, "Bearer "), cred.Prefix)
		if !ok {
			reject()
			return
		}
		if !tokens.EqualHex(tokens.HMAC256Hex(cred.Pepper, secret), cred.Lookup) {
			reject()
			return
		}

		// The credential is fixed for the process lifetime: argon2 runs until
		// the first success.
		if cred.VerifyPHC && !cred.verified.Load() {
			_, verifySpan := otel.Tracer("middleware").Start(ctx, "service_auth.verify_secret")
			pass, err := secrets.VerifySecret(secret, cred.Pepper, cred.PHC)
			verifySpan.End()
			if err != nil || !pass {
				reject()
				return
			}
			cred.verified.Store(true)
		}

		authorID, err := uuid.Parse(c.GetHeader(AuthorIDHeader))
		if err != nil || authorID == uuid.Nil {
			authSpan.SetAttributes(attribute.Bool("authenticated", true))
			authSpan.End()
			c.AbortWithStatusJSON(http.StatusBadRequest, serializer.ParamErr("missing or invalid "+AuthorIDHeader, err))
			return
		}

		rootSpan := trace.SpanFromContext(c.Request.Context())
		if rootSpan.SpanContext().IsValid() {
			rootSpan.SetAttributes(attribute.String("author_id", authorID.String()))
		}

		authSpan.SetAttributes(
			attribute.String("author_id", authorID.String()),
			attribute.Bool("authenticated", true),
		)
		authSpan.End()

		c.Set(AuthorIDKey, authorID)
		c.Next()
	}
}
