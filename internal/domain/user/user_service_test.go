package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo keys users by issuer+subject so Upsert behaves like the real
// on-conflict insert: an existing user keeps its ID and public ID.
type fakeRepo struct {
	users  map[string]*User
	nextID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]*User), nextID: 1}
}

func identityKey(issuer, subject string) string {
	return issuer + "|" + subject
}

func (f *fakeRepo) FindByIssuerAndSubject(_ context.Context, issuer, subject string) (*User, error) {
	return f.users[identityKey(issuer, subject)], nil
}

func (f *fakeRepo) FindByID(_ context.Context, id uint) (*User, error) {
	for _, usr := range f.users {
		if usr.ID == id {
			return usr, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) FindByPublicID(_ context.Context, publicID string) (*User, error) {
	for _, usr := range f.users {
		if usr.PublicID == publicID {
			return usr, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) Upsert(_ context.Context, usr *User) (*User, error) {
	key := identityKey(usr.Issuer, usr.Subject)
	if existing, ok := f.users[key]; ok {
		updated := *usr
		updated.ID = existing.ID
		updated.PublicID = existing.PublicID
		updated.IsActive = existing.IsActive
		f.users[key] = &updated
		return &updated, nil
	}
	stored := *usr
	stored.ID = f.nextID
	f.nextID++
	f.users[key] = &stored
	return &stored, nil
}

func (f *fakeRepo) Update(_ context.Context, usr *User) (*User, error) {
	stored := *usr
	f.users[identityKey(stored.Issuer, stored.Subject)] = &stored
	return &stored, nil
}

func strPtr(s string) *string { return &s }

func TestService_EnsureUser(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	t.Run("missing issuer is rejected", func(t *testing.T) {
		_, err := svc.EnsureUser(ctx, Identity{Subject: "sub-1", Email: "ada@example.com"})
		assert.ErrorIs(t, err, ErrInvalidIdentity)
	})

	t.Run("missing subject is rejected", func(t *testing.T) {
		_, err := svc.EnsureUser(ctx, Identity{Issuer: "https://auth.example.com", Email: "ada@example.com"})
		assert.ErrorIs(t, err, ErrInvalidIdentity)
	})

	t.Run("missing email is rejected", func(t *testing.T) {
		_, err := svc.EnsureUser(ctx, Identity{Issuer: "https://auth.example.com", Subject: "sub-1"})
		assert.ErrorIs(t, err, ErrInvalidIdentity)
	})

	t.Run("new identity mints a user", func(t *testing.T) {
		usr, err := svc.EnsureUser(ctx, Identity{
			Issuer:  "https://auth.example.com",
			Subject: "sub-1",
			Email:   "ada@example.com",
		})
		require.NoError(t, err)
		assert.Regexp(t, `^user_[a-z0-9]+$`, usr.PublicID)
		assert.Equal(t, "supabase", usr.AuthProvider)
		assert.Equal(t, "ada@example.com", usr.Email)
		assert.True(t, usr.IsActive)
	})

	t.Run("repeat login keeps the public ID", func(t *testing.T) {
		first, err := svc.EnsureUser(ctx, Identity{Issuer: "https://auth.example.com", Subject: "sub-2", Email: "grace@example.com"})
		require.NoError(t, err)

		second, err := svc.EnsureUser(ctx, Identity{
			Issuer:  "https://auth.example.com",
			Subject: "sub-2",
			Email:   "grace@example.com",
			Name:    strPtr("Ada"),
		})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.PublicID, second.PublicID)
		require.NotNil(t, second.Name)
		assert.Equal(t, "Ada", *second.Name)
	})

	t.Run("explicit provider is kept", func(t *testing.T) {
		usr, err := svc.EnsureUser(ctx, Identity{
			Provider: "jwt",
			Issuer:   "https://auth.example.com",
			Subject:  "sub-3",
			Email:    "alan@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "jwt", usr.AuthProvider)
	})
}

func TestService_UpdateProfile(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	usr, err := svc.EnsureUser(ctx, Identity{
		Issuer:  "https://auth.example.com",
		Subject: "sub-1",
		Email:   "ada@example.com",
		Name:    strPtr("Before"),
		Picture: strPtr("https://example.com/old.png"),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, usr, ProfilePatch{Name: strPtr("After")})
	require.NoError(t, err)
	require.NotNil(t, updated.Name)
	assert.Equal(t, "After", *updated.Name)
	require.NotNil(t, updated.Picture)
	assert.Equal(t, "https://example.com/old.png", *updated.Picture)
}

func TestService_Deactivate(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	usr, err := svc.EnsureUser(ctx, Identity{Issuer: "https://auth.example.com", Subject: "sub-1", Email: "ada@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, usr))

	stored, err := repo.FindByIssuerAndSubject(ctx, "https://auth.example.com", "sub-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.IsActive)
}
