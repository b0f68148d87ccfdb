package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/nhle/taskdesk/internal/model"
)

type fakeVerifier struct {
	uid string
	err error
}

func (f fakeVerifier) VerifyIDToken(context.Context, string) (*fbauth.Token, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &fbauth.Token{UID: f.uid}, nil
}

func TestStaticResolver(t *testing.T) {
	t.Parallel()

	tokens := map[string]string{"secret": "owner-1"}
	r := NewStaticResolver(tokens)
	tokens["secret"] = "changed"

	owner, err := r.ResolveOwner(context.Background(), "secret")
	if err != nil || owner != "owner-1" {
		t.Errorf("ResolveOwner = %q, %v", owner, err)
	}
	if _, err := r.ResolveOwner(context.Background(), "wrong"); !errors.Is(err, model.ErrNoOwner) {
		t.Errorf("unknown token err = %v", err)
	}
}

func TestFirebaseResolver(t *testing.T) {
	t.Parallel()

	ok := &FirebaseResolver{client: fakeVerifier{uid: "uid-42"}}
	owner, err := ok.ResolveOwner(context.Background(), "id-token")
	if err != nil || owner != "uid-42" {
		t.Errorf("ResolveOwner = %q, %v", owner, err)
	}

	bad := &FirebaseResolver{client: fakeVerifier{err: errors.New("expired")}}
	if _, err := bad.ResolveOwner(context.Background(), "id-token"); !errors.Is(err, model.ErrNoOwner) {
		t.Errorf("invalid token err = %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	resolver := NewStaticResolver(map[string]string{"secret": "owner-1"})
	var failed error
	h := Middleware(resolver, func(w http.ResponseWriter, _ *http.Request, err error) {
		failed = err
		w.WriteHeader(http.StatusUnauthorized)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner, err := OwnerFrom(r.Context())
		if err != nil {
			t.Errorf("OwnerFrom: %v", err)
		}
		_, _ = w.Write([]byte(owner))
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer secret", http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic secret", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		failed = nil
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.name, rec.Code, tt.status)
		}
		if tt.status == http.StatusOK && rec.Body.String() != "owner-1" {
			t.Errorf("%s: body = %q", tt.name, rec.Body.String())
		}
		if tt.status != http.StatusOK && !errors.Is(failed, model.ErrNoOwner) {
			t.Errorf("%s: failure = %v, want ErrNoOwner", tt.name, failed)
		}
	}
}

func TestOwnerFromEmptyContext(t *testing.T) {
	t.Parallel()

	if _, err := OwnerFrom(context.Background()); !errors.Is(err, model.ErrNoOwner) {
		t.Errorf("err = %v", err)
	}
}
