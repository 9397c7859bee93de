package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "lottery-odds/internal/domain/auth"
)

type fakeHasher struct {
	match bool
}

func (f fakeHasher) Compare(_, _ string) bool { return f.match }

type fakeTokens struct {
	subject string
	role    domain.Role
}

func (f *fakeTokens) Issue(subject string, role domain.Role) (domain.Token, error) {
	f.subject, f.role = subject, role
	return domain.Token{AccessToken: "tok", ExpiresAt: time.Now().Add(time.Minute)}, nil
}

func TestLogin(t *testing.T) {
	cases := []struct {
		name    string
		hash    string
		user    string
		match   bool
		wantErr error
	}{
		{"success", "h", "admin", true, nil},
		{"wrong password", "h", "admin", false, domain.ErrInvalidCredentials},
		{"wrong user", "h", "root", true, domain.ErrInvalidCredentials},
		{"disabled", "", "admin", true, domain.ErrLoginDisabled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tokens := &fakeTokens{}
			svc := NewService("admin", tc.hash, fakeHasher{match: tc.match}, tokens)
			tok, err := svc.Login(context.Background(), tc.user, "pw")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if tc.wantErr == nil && (tok.AccessToken != "tok" || tokens.subject != "admin" || tokens.role != domain.RoleAdmin) {
				t.Fatalf("unexpected token issue: %+v %+v", tok, tokens)
			}
		})
	}
}
