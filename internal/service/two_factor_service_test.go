package service

import (
	"PassVault/internal/apperr"
	"PassVault/internal/model"
	"PassVault/internal/repo"
	"PassVault/internal/totp"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTwoFactorFixture() (*TwoFactorService, *mockAccountRepo, *mockSettingsRepo, *mockOTP) {
	ar := new(mockAccountRepo)
	sr := new(mockSettingsRepo)
	otp := new(mockOTP)
	return NewTwoFactorService(ar, sr, otp, DefaultOptions(), zap.NewNop().Sugar()), ar, sr, otp
}

func TestTwoFactorService_Setup(t *testing.T) {
	ctx := context.Background()

	t.Run("stores pending secret labelled by email", func(t *testing.T) {
		svc, ar, sr, otp := newTwoFactorFixture()
		ar.On("GetByID", mock.Anything, "acc-1").Return(&model.Account{ID: "acc-1", Email: "a@x.com"}, nil).Once()
		otp.On("Enroll", "a@x.com").Return(totp.Enrollment{Secret: "NEW", URI: "otpauth://totp/x", QRCode: "data:image/png;base64,AA"}, nil).Once()
		sr.On("SetPendingSecret", mock.Anything, "acc-1", "NEW").Return(nil).Once()

		e, err := svc.Setup(ctx, "acc-1")
		require.NoError(t, err)
		assert.Equal(t, "NEW", e.Secret)
		assert.Equal(t, "otpauth://totp/x", e.URI)
		sr.AssertExpectations(t)
	})

	t.Run("unknown account", func(t *testing.T) {
		svc, ar, _, _ := newTwoFactorFixture()
		ar.On("GetByID", mock.Anything, "ghost").Return(nil, repo.ErrNotFound).Once()
		_, err := svc.Setup(ctx, "ghost")
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	})

	t.Run("store failure", func(t *testing.T) {
		svc, ar, sr, otp := newTwoFactorFixture()
		ar.On("GetByID", mock.Anything, "acc-1").Return(&model.Account{ID: "acc-1", Email: "a@x.com"}, nil).Once()
		otp.On("Enroll", "a@x.com").Return(totp.Enrollment{Secret: "NEW"}, nil).Once()
		sr.On("SetPendingSecret", mock.Anything, "acc-1", "NEW").Return(errors.New("io")).Once()
		_, err := svc.Setup(ctx, "acc-1")
		assert.ErrorIs(t, err, apperr.ErrUnavailable)
	})
}

func TestTwoFactorService_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("promotes pending secret", func(t *testing.T) {
		svc, _, sr, otp := newTwoFactorFixture()
		sr.On("Get", mock.Anything, "acc-1").Return(&model.Settings{AccountID: "acc-1", TwoFactorPendingSecret: "PENDING"}, nil).Once()
		otp.On("Verify", "PENDING", "123456", uint(1)).Return(true).Once()
		sr.On("EnableTwoFactor", mock.Anything, "acc-1").Return(nil).Once()

		require.NoError(t, svc.Verify(ctx, "acc-1", "123456"))
		sr.AssertExpectations(t)
	})

	t.Run("re-enrollment checks the pending secret, not the active one", func(t *testing.T) {
		svc, _, sr, otp := newTwoFactorFixture()
		sr.On("Get", mock.Anything, "acc-1").Return(&model.Settings{
			AccountID: "acc-1", TwoFactorEnabled: true, TwoFactorSecret: "ACTIVE", TwoFactorPendingSecret: "PENDING",
		}, nil).Once()
		otp.On("Verify", "PENDING", "111111", uint(1)).Return(false).Once()

		assert.ErrorIs(t, svc.Verify(ctx, "acc-1", "111111"), ErrInvalidCode)
		sr.AssertNotCalled(t, "EnableTwoFactor", mock.Anything, mock.Anything)
	})

	t.Run("not setup", func(t *testing.T) {
		svc, _, sr, _ := newTwoFactorFixture()
		sr.On("Get", mock.Anything, "acc-1").Return(model.DefaultSettings("acc-1"), nil).Once()
		assert.ErrorIs(t, svc.Verify(ctx, "acc-1", "123456"), ErrTwoFactorNotSetup)
	})
}

func TestTwoFactorService_Disable(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		svc, _, sr, otp := newTwoFactorFixture()
		sr.On("Get", mock.Anything, "acc-1").Return(&model.Settings{AccountID: "acc-1", TwoFactorEnabled: true, TwoFactorSecret: "ACTIVE"}, nil).Once()
		otp.On("Verify", "ACTIVE", "123456", uint(1)).Return(true).Once()
		sr.On("DisableTwoFactor", mock.Anything, "acc-1").Return(nil).Once()

		require.NoError(t, svc.Disable(ctx, "acc-1", "123456"))
		sr.AssertExpectations(t)
	})

	t.Run("not enabled", func(t *testing.T) {
		svc, _, sr, _ := newTwoFactorFixture()
		sr.On("Get", mock.Anything, "acc-1").Return(&model.Settings{AccountID: "acc-1", TwoFactorPendingSecret: "P"}, nil).Once()
		assert.ErrorIs(t, svc.Disable(ctx, "acc-1", "123456"), ErrTwoFactorNotEnabled)
	})

	t.Run("invalid code keeps 2fa on", func(t *testing.T) {
		svc, _, sr, otp := newTwoFactorFixture()
		sr.On("Get", mock.Anything, "acc-1").Return(&model.Settings{AccountID: "acc-1", TwoFactorEnabled: true, TwoFactorSecret: "ACTIVE"}, nil).Once()
		otp.On("Verify", "ACTIVE", "000000", uint(1)).Return(false).Once()

		assert.ErrorIs(t, svc.Disable(ctx, "acc-1", "000000"), ErrInvalidCode)
		sr.AssertNotCalled(t, "DisableTwoFactor", mock.Anything, mock.Anything)
	})
}
