package gate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGateInitialState(t *testing.T) {
	g := New(LocalPIN("1234"))

	assert.Equal(t, LoggedOut, g.State())
	assert.False(t, g.CanEdit())
	assert.Empty(t, g.Error())
}

func TestGateSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong pin", func(t *testing.T) {
		g := New(LocalPIN("1234"))
		g.SetInput("9999")

		assert.False(t, g.SubmitInput(ctx))
		assert.Equal(t, LoggedOut, g.State())
		assert.Equal(t, "invalid PIN", g.Error())
		assert.Empty(t, g.Input())
	})

	t.Run("correct pin clears error", func(t *testing.T) {
		g := New(LocalPIN("1234"))
		g.Submit(ctx, "0000")
		assert.NotEmpty(t, g.Error())

		assert.True(t, g.Submit(ctx, "1234"))
		assert.Equal(t, LoggedIn, g.State())
		assert.True(t, g.CanEdit())
		assert.Empty(t, g.Error())
	})

	t.Run("verifier failure", func(t *testing.T) {
		g := New(func(ctx context.Context, pin string) error {
			return errors.New("connection refused")
		})

		assert.False(t, g.Submit(ctx, "1234"))
		assert.Equal(t, LoggedOut, g.State())
		assert.Equal(t, "login failed, try again", g.Error())
	})

	t.Run("wrapped invalid pin", func(t *testing.T) {
		g := New(func(ctx context.Context, pin string) error {
			return errors.Join(errors.New("401"), ErrInvalidPIN)
		})

		assert.False(t, g.Submit(ctx, "1234"))
		assert.Equal(t, "invalid PIN", g.Error())
	})
}

func TestGateLogout(t *testing.T) {
	g := New(LocalPIN("1234"))
	g.Submit(context.Background(), "1234")

	g.Logout()

	assert.Equal(t, LoggedOut, g.State())
	assert.False(t, g.CanEdit())

	// Logout is always available.
	g.Logout()
	assert.Equal(t, LoggedOut, g.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "logged_out", LoggedOut.String())
	assert.Equal(t, "logged_in", LoggedIn.String())
}
