// Package auth turns request credentials into an owner id.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/nhle/taskdesk/internal/model"
)

// Supported auth modes.
const (
	ModeStatic   = "static"
	ModeFirebase = "firebase"
)

// OwnerResolver maps a bearer token to the owner it authenticates.
type OwnerResolver interface {
	ResolveOwner(ctx context.Context, token string) (string, error)
}

// StaticResolver looks tokens up in a fixed table. It suits a single-user
// install and tests.
type StaticResolver struct {
	tokens map[string]string
}

// NewStaticResolver copies the token → owner table.
func NewStaticResolver(tokens map[string]string) *StaticResolver {
	t := make(map[string]string, len(tokens))
	for k, v := range tokens {
		t[k] = v
	}
	return &StaticResolver{tokens: t}
}

// ResolveOwner returns the owner for token or model.ErrNoOwner.
func (r *StaticResolver) ResolveOwner(_ context.Context, token string) (string, error) {
	owner, ok := r.tokens[token]
	if !ok || owner == "" {
		return "", model.ErrNoOwner
	}
	return owner, nil
}

// tokenVerifier is the part of the Firebase auth client the resolver uses.
type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseResolver verifies Firebase ID tokens; the owner is the token's UID.
type FirebaseResolver struct {
	client tokenVerifier
}

// NewFirebaseResolver initializes a Firebase app from a service-account file.
func NewFirebaseResolver(ctx context.Context, credentialsFile string) (*FirebaseResolver, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting firebase auth client: %w", err)
	}
	return &FirebaseResolver{client: client}, nil
}

// ResolveOwner verifies the ID token and returns its UID.
func (r *FirebaseResolver) ResolveOwner(ctx context.Context, token string) (string, error) {
	verified, err := r.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("verifying id token: %v: %w", err, model.ErrNoOwner)
	}
	if verified.UID == "" {
		return "", model.ErrNoOwner
	}
	return verified.UID, nil
}

// NewResolver builds the resolver selected by cfg.
func NewResolver(ctx context.Context, cfg model.AuthConfig) (OwnerResolver, error) {
	switch cfg.Mode {
	case ModeStatic, "":
		return NewStaticResolver(cfg.StaticTokens), nil
	case ModeFirebase:
		return NewFirebaseResolver(ctx, cfg.FirebaseCredentials)
	}
	return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
}

type ownerKey struct{}

// WithOwner stores the owner id on ctx.
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

// OwnerFrom returns the owner stored on ctx, or model.ErrNoOwner.
func OwnerFrom(ctx context.Context) (string, error) {
	owner, _ := ctx.Value(ownerKey{}).(string)
	if owner == "" {
		return "", model.ErrNoOwner
	}
	return owner, nil
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", errors.New("authorization header missing")
	}
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", errors.New("authorization header is not a bearer token")
	}
	return strings.TrimSpace(token), nil
}

// Middleware rejects requests without a resolvable owner and puts the
// owner on the request context. onFail writes the rejection.
func Middleware(resolver OwnerResolver, onFail func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r)
			if err != nil {
				onFail(w, r, fmt.Errorf("%v: %w", err, model.ErrNoOwner))
				return
			}
			owner, err := resolver.ResolveOwner(r.Context(), token)
			if err != nil {
				onFail(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
		})
	}
}
