package services

import (
	"context"
	"testing"
	"time"

	"github.com/LovationAdmin/birthday-api/models"
	"github.com/LovationAdmin/birthday-api/testutils"
	"github.com/LovationAdmin/birthday-api/utils"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func newAuth(t *testing.T, allowRegister bool) (*testutils.MemoryStore, *AuthService, *UserService, *utils.TokenManager) {
	t.Helper()
	store := testutils.NewMemoryStore()
	cipher, err := utils.NewCipher(testKey)
	require.NoError(t, err)
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	return store, NewAuthService(store, tokens, cipher, allowRegister), NewUserService(store, cipher), tokens
}

func TestRegisterDisabledByDefault(t *testing.T) {
	_, auth, _, _ := newAuth(t, false)

	_, err := auth.Register(context.Background(), models.RegisterRequest{
		Email: "a@example.com", Password: "secret123", CompanyName: "ACME",
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	_, auth, _, tokens := newAuth(t, true)

	reg, err := auth.Register(ctx, models.RegisterRequest{
		Email: " Org@Example.com ", Password: "secret123", CompanyName: "ACME",
	})
	require.NoError(t, err)
	assert.Equal(t, "org@example.com", reg.User.Email)
	assert.NotEmpty(t, reg.User.PasswordHash)

	claims, err := tokens.ParseAccessToken(reg.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)

	_, err = auth.Register(ctx, models.RegisterRequest{
		Email: "org@example.com", Password: "another1", CompanyName: "ACME",
	})
	assert.ErrorIs(t, err, ErrConflict)

	login, err := auth.Login(ctx, models.LoginRequest{Username: "org@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	_, err = auth.Login(ctx, models.LoginRequest{Email: "org@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = auth.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = auth.Login(ctx, models.LoginRequest{Password: "secret123"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterValidation(t *testing.T) {
	_, auth, _, _ := newAuth(t, true)

	_, err := auth.Register(context.Background(), models.RegisterRequest{
		Email: "not-an-email", Password: "secret123", CompanyName: "ACME",
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = auth.Register(context.Background(), models.RegisterRequest{
		Email: "a@example.com", Password: "123", CompanyName: "ACME",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoginInactiveAccount(t *testing.T) {
	ctx := context.Background()
	store, auth, _, _ := newAuth(t, true)
	reg, err := auth.Register(ctx, models.RegisterRequest{Email: "a@example.com", Password: "secret123", CompanyName: "ACME"})
	require.NoError(t, err)

	user, err := store.Users().GetByID(ctx, reg.User.ID)
	require.NoError(t, err)
	user.IsActive = false
	require.NoError(t, store.Users().Update(ctx, user))

	_, err = auth.Login(ctx, models.LoginRequest{Email: "a@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	_, auth, _, _ := newAuth(t, false)

	created, err := auth.EnsureAdmin(ctx, "admin@example.com", "admin-pass", "Admin")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = auth.EnsureAdmin(ctx, "admin@example.com", "admin-pass", "Admin")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = auth.EnsureAdmin(ctx, "", "", "Admin")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = auth.Login(ctx, models.LoginRequest{Username: "admin@example.com", Password: "admin-pass"})
	assert.NoError(t, err)
}

func TestTwoFactorLifecycle(t *testing.T) {
	ctx := context.Background()
	store, auth, users, _ := newAuth(t, true)
	reg, err := auth.Register(ctx, models.RegisterRequest{Email: "a@example.com", Password: "secret123", CompanyName: "ACME"})
	require.NoError(t, err)
	userID := reg.User.ID

	setup, err := users.SetupTOTP(ctx, userID)
	require.NoError(t, err)
	assert.NotEmpty(t, setup.Secret)
	assert.Contains(t, setup.URL, "otpauth://")
	assert.Contains(t, setup.QRCode, "data:image/png;base64,")

	stored, err := store.Users().GetByID(ctx, userID)
	require.NoError(t, err)
	assert.NotEqual(t, setup.Secret, stored.TOTPSecret, "secret is encrypted at rest")
	assert.False(t, stored.TOTPEnabled)

	assert.ErrorIs(t, users.VerifyTOTP(ctx, userID, models.VerifyTOTPRequest{Code: "000000"}), ErrUnauthorized)

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, users.VerifyTOTP(ctx, userID, models.VerifyTOTPRequest{Code: code}))

	_, err = auth.Login(ctx, models.LoginRequest{Email: "a@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrTwoFactorRequired)

	_, err = auth.Login(ctx, models.LoginRequest{Email: "a@example.com", Password: "secret123", TOTPCode: "000000"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = auth.Login(ctx, models.LoginRequest{Email: "a@example.com", Password: "secret123", TOTPCode: code})
	require.NoError(t, err)

	err = users.DisableTOTP(ctx, userID, models.DisableTOTPRequest{Password: "wrong", Code: code})
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, users.DisableTOTP(ctx, userID, models.DisableTOTPRequest{Password: "secret123", Code: code}))

	_, err = auth.Login(ctx, models.LoginRequest{Email: "a@example.com", Password: "secret123"})
	assert.NoError(t, err)
}

func TestSetupTOTPRequiresEncryptionKey(t *testing.T) {
	store := testutils.NewMemoryStore()
	owner := newOwner(t, store, "owner@example.com")
	disabled, err := utils.NewCipher("")
	require.NoError(t, err)

	_, err = NewUserService(store, disabled).SetupTOTP(context.Background(), owner.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestChangePasswordAndProfile(t *testing.T) {
	ctx := context.Background()
	_, auth, users, _ := newAuth(t, true)
	reg, err := auth.Register(ctx, models.RegisterRequest{Email: "a@example.com", Password: "secret123", CompanyName: "ACME"})
	require.NoError(t, err)

	err = users.ChangePassword(ctx, reg.User.ID, models.ChangePasswordRequest{OldPassword: "nope", NewPassword: "newpass1"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, users.ChangePassword(ctx, reg.User.ID, models.ChangePasswordRequest{OldPassword: "secret123", NewPassword: "newpass1"}))
	_, err = auth.Login(ctx, models.LoginRequest{Email: "a@example.com", Password: "newpass1"})
	require.NoError(t, err)

	user, err := users.UpdateProfile(ctx, reg.User.ID, models.UpdateProfileRequest{FirstName: ptr("Lola")})
	require.NoError(t, err)
	assert.Equal(t, "Lola", user.FirstName)
	assert.Equal(t, "ACME", user.CompanyName)

	_, err = users.UpdateProfile(ctx, reg.User.ID, models.UpdateProfileRequest{CompanyName: ptr(" ")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteAccountCascades(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMemoryStore()
	owner := newOwner(t, store, "owner@example.com")
	keep := newOwner(t, store, "keep@example.com")
	inv := newInvitation(t, store, owner.ID, true)
	kept := newInvitation(t, store, keep.ID, true)
	rsvps := NewRSVPService(store, nil, nil)
	_, err := rsvps.Submit(ctx, inv.UniqueCode, rsvp("Ana", "", "", models.RSVPAccepted))
	require.NoError(t, err)
	_, err = rsvps.Submit(ctx, kept.UniqueCode, rsvp("Bea", "", "", models.RSVPAccepted))
	require.NoError(t, err)
	users := NewUserService(store, nil)

	err = users.DeleteAccount(ctx, owner.ID, models.DeleteAccountRequest{Password: "bad"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, users.DeleteAccount(ctx, owner.ID, models.DeleteAccountRequest{Password: "secret123"}))

	_, err = users.Me(ctx, owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Invitations().GetByID(ctx, inv.ID)
	assert.Error(t, err)
	guests := store.AllGuests()
	require.Len(t, guests, 1)
	assert.Equal(t, kept.ID, guests[0].InvitationID)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMemoryStore()
	owner := newOwner(t, store, "owner@example.com")
	inv := newInvitation(t, store, owner.ID, true)
	_, err := NewRSVPService(store, nil, nil).Submit(ctx, inv.UniqueCode, rsvp("Ana", "ana@example.com", "", models.RSVPAccepted))
	require.NoError(t, err)

	export, err := NewUserService(store, nil).Export(ctx, owner.ID)
	require.NoError(t, err)

	assert.Equal(t, owner.ID, export.User.ID)
	require.Len(t, export.Invitations, 1)
	assert.Len(t, export.Invitations[0].Guests, 1)
	assert.Equal(t, 1, export.Invitations[0].RSVPStats.Accepted)
	assert.NotNil(t, export.Templates)
	assert.False(t, export.ExportedAt.IsZero())
}
