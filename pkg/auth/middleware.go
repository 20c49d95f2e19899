package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/bridge-claims/pkg/app/errors"
	apphttp "github.com/chainsafe/bridge-claims/pkg/app/http"
)

// Headers carrying an EIP-191 signed authentication message.
const (
	HeaderSignature = "X-Signature"
	HeaderMessage   = "X-Message"
)

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (jwt.MapClaims, error)
}

// Authenticator accepts either an operator bearer token or a fresh EIP-191 signed message.
type Authenticator struct {
	tokens TokenValidator
	replay ReplayGuard
	maxAge time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewAuthenticator creates an authenticator. A nil tokens validator disables bearer auth and
// a non-positive maxAge disables signature auth.
func NewAuthenticator(tokens TokenValidator, replay ReplayGuard, maxAge time.Duration, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		tokens: tokens,
		replay: replay,
		maxAge: maxAge,
		now:    time.Now,
		logger: logger.With(zap.String("component", "auth")),
	}
}

// Authenticate identifies the caller of r.
func (a *Authenticator) Authenticate(r *http.Request) (*Principal, error) {
	if token, ok := bearerToken(r); ok {
		return a.authenticateToken(r.Context(), token)
	}

	sig, msg := r.Header.Get(HeaderSignature), r.Header.Get(HeaderMessage)
	if sig != "" || msg != "" {
		return a.authenticateSignature(r.Context(), msg, sig)
	}
	return nil, apperrors.UnAuthorizedError(nil, "authentication required")
}

func (a *Authenticator) authenticateToken(ctx context.Context, token string) (*Principal, error) {
	if a.tokens == nil {
		return nil, apperrors.UnAuthorizedError(nil, "bearer tokens are not accepted")
	}
	claims, err := a.tokens.ValidateToken(ctx, token)
	if err != nil {
		return nil, apperrors.UnAuthorizedError(err, "invalid token")
	}
	sub, _ := claims.GetSubject()
	return &Principal{Method: MethodJWT, Subject: sub}, nil
}

func (a *Authenticator) authenticateSignature(ctx context.Context, msg, sig string) (*Principal, error) {
	if a.maxAge <= 0 {
		return nil, apperrors.UnAuthorizedError(nil, "signed messages are not accepted")
	}
	if msg == "" || sig == "" {
		return nil, apperrors.UnAuthorizedError(nil, "signature and message required")
	}

	signedAt, err := ParseSignedMessage(msg)
	if err != nil {
		return nil, apperrors.UnAuthorizedError(err, "invalid auth message")
	}
	if err := CheckFreshness(signedAt, a.now(), a.maxAge); err != nil {
		return nil, apperrors.UnAuthorizedError(err, "auth message expired")
	}

	addr, err := VerifyEIP191Signature(msg, sig)
	if err != nil {
		return nil, apperrors.UnAuthorizedError(err, "invalid signature")
	}

	fresh, err := a.replay.Claim(ctx, ReplayKey(addr.Hex(), msg, sig), a.maxAge+maxClockSkew)
	if err != nil {
		return nil, apperrors.GeneralError(err)
	}
	if !fresh {
		return nil, apperrors.UnAuthorizedError(nil, "signature already used")
	}
	return &Principal{Method: MethodSignature, Address: addr.Hex()}, nil
}

// Middleware rejects unauthenticated requests and stores the principal in the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := a.Authenticate(r)
		if err != nil {
			a.logger.Debug("Request rejected",
				zap.String("path", r.URL.Path),
				zap.Error(err))
			apphttp.DefaultErrorHandler(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
