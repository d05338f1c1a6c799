package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/waste3d/pianoplatform-api/internal/domain"
)

func TestCheckAccessAdminBypassesStorage(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "intermediate_access_u1", "false")
	user := &domain.UserIdentity{ID: "u1"}

	got := f.deps.Entitlements.CheckAccess(context.Background(), user, true)

	assert.Equal(t, domain.AccessGranted, got)
	gets, _ := f.store.counts()
	assert.Zero(t, gets)
}

func TestCheckAccessNoUser(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, domain.AccessDenied, f.deps.Entitlements.CheckAccess(context.Background(), nil, false))
	assert.Equal(t, domain.AccessDenied, f.deps.Entitlements.CheckAccess(context.Background(), nil, true))
	gets, _ := f.store.counts()
	assert.Zero(t, gets)
}

func TestCheckAccessStoredFlag(t *testing.T) {
	tests := []struct {
		name  string
		value string
		seed  bool
		want  domain.AccessDecision
	}{
		{"true", "true", true, domain.AccessGranted},
		{"false", "false", true, domain.AccessDenied},
		{"missing", "", false, domain.AccessDenied},
		{"not literal true", "yes", true, domain.AccessDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.seed {
				f.seed(t, "intermediate_access_u1", tt.value)
			}
			got := f.deps.Entitlements.CheckAccess(context.Background(), &domain.UserIdentity{ID: "u1"}, false)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckAccessFailsClosed(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "intermediate_access_u1", "true")
	f.store.failGets = true

	got := f.deps.Entitlements.CheckAccess(context.Background(), &domain.UserIdentity{ID: "u1"}, false)
	assert.Equal(t, domain.AccessDenied, got)
}
