package session_test

import (
	"testing"

	apperrors "github.com/jrsteele09/go-assoc-admin/internal/errors"
	"github.com/jrsteele09/go-assoc-admin/session"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestResultOf(t *testing.T) {
	require.Equal(t, session.Result{Success: true}, session.ResultOf(nil))
	require.Equal(t, session.Result{Success: true, Message: "Logged in"}, session.ResultWith("Logged in", nil))

	backend := errors.Wrap(apperrors.New(apperrors.ErrValidation, "Email is required", nil), "[Manager.Login]")
	require.Equal(t, session.Result{Message: "Email is required"}, session.ResultOf(backend))
	require.Equal(t, session.Result{Message: "Email is required"}, session.ResultWith("Logged in", backend))

	notLoggedIn := apperrors.New(apperrors.ErrNotAuthenticated, "", nil)
	require.Equal(t, "you need to log in first", session.ResultOf(notLoggedIn).Message)

	require.Equal(t, "server error, try again later", session.ResultOf(errors.Wrap(apperrors.ErrServer, "x")).Message)
	require.Equal(t, "something went wrong, try again later", session.ResultOf(errors.New("boom")).Message)
}

func TestStateNames(t *testing.T) {
	require.Equal(t, "initializing", session.Initializing.String())
	require.Equal(t, "expired", session.Expired.String())
	require.Equal(t, "unknown", session.State(42).String())
	require.True(t, session.Expired.LoggedOut())
	require.False(t, session.Initializing.LoggedOut())

	var nilSession *session.Session
	require.Empty(t, nilSession.GetRole())
}
