package usecase

import (
	"errors"
	"testing"

	"colorcrash/configs"
	"colorcrash/internal/domain"
	"colorcrash/internal/store"
)

func newAuthFixture(t *testing.T) (*AuthService, *store.Ledger) {
	t.Helper()
	cfg := configs.Load()
	ledger := store.NewLedger(nil)
	return NewAuthService(ledger, cfg, nil), ledger
}

func register(t *testing.T, auth *AuthService, ledger *store.Ledger, phone, referral string) *domain.User {
	t.Helper()
	if err := auth.SendOTP(phone); err != nil {
		t.Fatal(err)
	}
	otp, err := ledger.OTPByPhone(phone)
	if err != nil {
		t.Fatal(err)
	}
	if err := auth.VerifyOTP(phone, otp.Code); err != nil {
		t.Fatal(err)
	}
	user, err := auth.Register(phone, "secret123", "Player", referral)
	if err != nil {
		t.Fatal(err)
	}
	return user
}

func TestRegisterRequiresVerifiedPhone(t *testing.T) {
	auth, _ := newAuthFixture(t)

	_, err := auth.Register("5550001111", "secret123", "Player", "")
	if !errors.Is(err, domain.ErrPhoneNotVerified) {
		t.Fatalf("err = %v, want ErrPhoneNotVerified", err)
	}
}

func TestOTPFlow(t *testing.T) {
	auth, ledger := newAuthFixture(t)
	phone := "5550001111"

	if err := auth.SendOTP("123"); !errors.Is(err, domain.ErrInvalidPhone) {
		t.Fatalf("short phone accepted: %v", err)
	}
	if err := auth.SendOTP(phone); err != nil {
		t.Fatal(err)
	}
	if err := auth.VerifyOTP(phone, "000000x"); !errors.Is(err, domain.ErrOTPMismatch) {
		t.Fatalf("wrong code: err = %v", err)
	}

	otp, _ := ledger.OTPByPhone(phone)
	if err := auth.VerifyOTP(phone, otp.Code); err != nil {
		t.Fatal(err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	auth, ledger := newAuthFixture(t)
	user := register(t, auth, ledger, "5550001111", "")

	if user.Balance != 1000 {
		t.Fatalf("starting balance = %v, want 1000", user.Balance)
	}
	if len(user.ReferralCode) != 8 {
		t.Fatalf("referral code = %q", user.ReferralCode)
	}
	if user.PasswordHash == "secret123" {
		t.Fatal("password stored in the clear")
	}

	got, err := auth.Login("5550001111", "secret123")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != user.ID {
		t.Fatal("login returned a different account")
	}
	if _, err := auth.Login("5550001111", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("bad password: err = %v", err)
	}

	// Same phone cannot register twice.
	if err := auth.SendOTP("5550001111"); err != nil {
		t.Fatal(err)
	}
	otp, _ := ledger.OTPByPhone("5550001111")
	auth.VerifyOTP("5550001111", otp.Code)
	if _, err := auth.Register("5550001111", "secret123", "Player", ""); !errors.Is(err, domain.ErrPhoneTaken) {
		t.Fatalf("duplicate phone: err = %v", err)
	}
}

func TestReferralBonusCreditsBothSides(t *testing.T) {
	auth, ledger := newAuthFixture(t)
	referrer := register(t, auth, ledger, "5550001111", "")

	referee := register(t, auth, ledger, "5550002222", referrer.ReferralCode)
	if referee.Balance != 1000+250 {
		t.Fatalf("referee balance = %v, want 1250", referee.Balance)
	}
	if referee.ReferredBy == nil || *referee.ReferredBy != referrer.ID {
		t.Fatal("referred-by back-reference missing")
	}

	after, _ := ledger.UserByID(referrer.ID)
	if after.Balance != 1000+250 {
		t.Fatalf("referrer balance = %v, want 1250", after.Balance)
	}
	if after.ReferralCount != 1 {
		t.Fatalf("referral count = %d, want 1", after.ReferralCount)
	}

	if _, err := auth.Register("5550003333", "secret123", "P", "NOPE1234"); !errors.Is(err, domain.ErrPhoneNotVerified) {
		// unverified phone is checked before the referral code
		t.Fatalf("err = %v", err)
	}
}
