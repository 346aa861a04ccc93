package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_RegisterLoginVerify(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	s, err := e.auth.Register(ctx, "  Carla@Example.com ", "pa55word", "Carla")
	require.NoError(t, err)
	assert.Equal(t, "carla@example.com", s.User.Email)
	assert.Equal(t, "Carla", s.User.Name)
	assert.NotEmpty(t, s.AccessToken)
	assert.NotEmpty(t, s.RefreshToken)
	assert.True(t, s.AccessExp.Before(s.RefreshExp))

	id, err := e.auth.Verify(s.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, id.UserID)
	assert.Equal(t, "carla@example.com", id.Email)

	_, err = e.auth.Verify(s.AccessToken + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	in, err := e.auth.Login(ctx, "CARLA@example.com", "pa55word")
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, in.User.ID)

	me, err := e.auth.Me(ctx, s.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carla", me.Name)
	_, err = e.auth.Me(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuth_RegisterRejects(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.auth.Register(ctx, "ana@example.com", "whatever", "Ana again")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	_, err = e.auth.Register(ctx, "ANA@example.com", "whatever", "Ana again")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = e.auth.Register(ctx, "new@example.com", "", "New")
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = e.auth.Register(ctx, "new@example.com", "pw", "  ")
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = e.auth.Register(ctx, "not-an-email", "pw", "New")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestAuth_LoginFailuresLookAlike(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, wrongPassword := e.auth.Login(ctx, "ana@example.com", "nope")
	_, unknownEmail := e.auth.Login(ctx, "nobody@example.com", "nope")
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())

	_, err := e.auth.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestAuth_RefreshRotatesAndLogoutRevokes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	s, err := e.auth.Login(ctx, "ana@example.com", "secret123")
	require.NoError(t, err)

	next, err := e.auth.Refresh(ctx, s.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, s.RefreshToken, next.RefreshToken)

	_, err = e.auth.Refresh(ctx, s.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = e.auth.Refresh(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	require.NoError(t, e.auth.Logout(ctx, next.RefreshToken))
	assert.ErrorIs(t, e.auth.Logout(ctx, next.RefreshToken), ErrInvalidToken)

	a, err := e.auth.Login(ctx, "ana@example.com", "secret123")
	require.NoError(t, err)
	b, err := e.auth.Login(ctx, "ana@example.com", "secret123")
	require.NoError(t, err)
	require.NoError(t, e.auth.LogoutAll(ctx, e.userID))
	_, err = e.auth.Refresh(ctx, a.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = e.auth.Refresh(ctx, b.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuth_ConcurrentRefreshRotatesOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	for round := 0; round < 5; round++ {
		s, err := e.auth.Login(ctx, "ana@example.com", "secret123")
		require.NoError(t, err)

		var (
			wg sync.WaitGroup
			ok int32
		)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := e.auth.Refresh(ctx, s.RefreshToken)
				switch {
				case err == nil:
					atomic.AddInt32(&ok, 1)
				case !errors.Is(err, ErrInvalidToken):
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), ok, "round %d", round)
	}
}
