// internal/account/implementation_test.go
package account

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sullpe/OtakuShop/pkg/statestore"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	return newTestServiceWithRate(t, 1000)
}

func newTestServiceWithRate(t *testing.T, perMin int) Service {
	t.Helper()
	store := statestore.Open(filepath.Join(t.TempDir(), "state.json"))
	return NewService(store, Config{
		TokenSecret:      []byte("test_secret"),
		TokenTTL:         time.Hour,
		LoginRatePerMin:  perMin,
		SimulatedLatency: 0,
	})
}

func TestRegisterIssuesSession(t *testing.T) {
	svc := newTestService(t)

	session, err := svc.Register(context.Background(), "Denji", "denji@example.com", "pochita")
	require.NoError(t, err)

	assert.Equal(t, "Denji", session.User.Name)
	assert.Equal(t, "denji@example.com", session.User.Email)
	assert.NotEmpty(t, session.Token)

	user, err := svc.VerifyToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, user.ID)
}

func TestRegisterRequiresAllFields(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(context.Background(), "", "denji@example.com", "pochita")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestLoginVerifiesRegisteredPassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Register(ctx, "Denji", "denji@example.com", "pochita")
	require.NoError(t, err)

	session, err := svc.Login(ctx, "denji@example.com", "pochita")
	require.NoError(t, err)
	assert.Equal(t, "Denji", session.User.Name)

	_, err = svc.Login(ctx, "denji@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmailMaterializesDemoUser(t *testing.T) {
	svc := newTestService(t)

	session, err := svc.Login(context.Background(), "fresh@example.com", "whatever")
	require.NoError(t, err)

	assert.Equal(t, demoUserName, session.User.Name)
	assert.Equal(t, "fresh@example.com", session.User.Email)
}

func TestLoginRequiresBothFields(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Login(context.Background(), "denji@example.com", "")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	session, err := svc.Register(ctx, "Denji", "denji@example.com", "pochita")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, session.User.ID, "pochita", "chainsaw")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "denji@example.com", "chainsaw")
	require.NoError(t, err)
	_, err = svc.Login(ctx, "denji@example.com", "pochita")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePasswordRejectsEmptyFields(t *testing.T) {
	svc := newTestService(t)

	err := svc.ChangePassword(context.Background(), uuid.New(), "", "next")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestChangePasswordRejectsWrongCurrent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	session, err := svc.Register(ctx, "Denji", "denji@example.com", "pochita")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, session.User.ID, "wrong", "next")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestResetPasswordAlwaysResolves(t *testing.T) {
	svc := newTestService(t)

	assert.NoError(t, svc.ResetPassword(context.Background(), "anyone@example.com"))
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.VerifyToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLoginRateLimit(t *testing.T) {
	svc := newTestServiceWithRate(t, 2)
	ctx := context.Background()

	_, err := svc.Login(ctx, "a@example.com", "pw")
	require.NoError(t, err)
	_, err = svc.Login(ctx, "b@example.com", "pw")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "c@example.com", "pw")
	assert.ErrorIs(t, err, ErrRateLimited)
}
