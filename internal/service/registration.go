package service

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"ismartshop/shop-api/internal/model"
	"ismartshop/shop-api/internal/store"
	"ismartshop/shop-api/pkg/security"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

const (
	idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idLength  = 16

	// Pending entries older than this are swept before every registry
	// operation, so there is no dedicated scheduler to run
	pendingTTL = 24 * time.Hour
)

// Registration owns the life cycle of an account before it becomes a real
// user: it keeps the pending-verification registry, mails out codes, and
// promotes a pending entry into a permanent User when the right code comes
// back.
type Registration struct {
	Store  store.Store
	Hasher *security.Hasher

	// Mailer may be nil; delivery is best-effort either way
	Mailer Mailer
}

// Register stores a pending verification for email and returns its 6-digit
// code. Registering an address that is already pending rotates the code and
// timestamp instead of erroring, which doubles as a resend for users stuck
// before verification. An address with a permanent User fails with
// ErrEmailTaken.
func (r *Registration) Register(email, name, password string) (string, error) {
	email = model.NormalizeEmail(email)
	r.purgeExpired()

	if _, err := r.Store.UserByEmail(email); err == nil {
		return "", ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return "", err
	}

	hash, err := r.Hasher.Hash(password)
	if err != nil {
		return "", err
	}

	code := generateCode()

	err = r.Store.SavePending(&model.PendingVerification{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Code:         code,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return "", err
	}

	r.deliverCode(email, code)
	return code, nil
}

// Resend rotates the code of an existing pending verification. Unlike
// Register it refuses to conjure one up for an unknown address.
func (r *Registration) Resend(email string) (string, error) {
	email = model.NormalizeEmail(email)
	r.purgeExpired()

	p, err := r.Store.PendingByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrNoPendingVerification
		}

		return "", err
	}

	p.Code = generateCode()
	p.CreatedAt = time.Now()

	if err := r.Store.SavePending(p); err != nil {
		return "", err
	}

	r.deliverCode(email, p.Code)
	return p.Code, nil
}

// Verify promotes the pending entry for email into a permanent User when
// code matches. Creation of the User and deletion of the pending entry are
// applied as one unit by the store.
func (r *Registration) Verify(email, code string) (*model.User, error) {
	email = model.NormalizeEmail(email)
	r.purgeExpired()

	p, err := r.Store.PendingByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoPendingVerification
		}

		return nil, err
	}

	if p.Code != code {
		return nil, ErrInvalidCode
	}

	id, err := gonanoid.Generate(idCharset, idLength)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		ID:           id,
		Email:        email,
		Name:         p.Name,
		PasswordHash: p.PasswordHash,
		Verified:     true,
		Role:         model.RoleUser,
		CreatedAt:    time.Now(),
	}

	if err := r.Store.Promote(u, email); err != nil {
		return nil, err
	}

	return u, nil
}

// Authenticate checks credentials for login. An address that is still
// pending verification gets ErrEmailNotVerified so the frontend can point
// at the code entry screen instead of a generic failure.
func (r *Registration) Authenticate(email, password string) (*model.User, error) {
	email = model.NormalizeEmail(email)

	u, err := r.Store.UserByEmail(email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}

		if _, perr := r.Store.PendingByEmail(email); perr == nil {
			return nil, ErrEmailNotVerified
		}

		return nil, ErrInvalidCredentials
	}

	if !r.Hasher.Verify(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// purgeExpired is called opportunistically at the top of every registry
// operation so stale codes can't be redeemed and abandoned registrations
// don't pile up
func (r *Registration) purgeExpired() {
	if err := r.Store.PurgePendingBefore(time.Now().Add(-pendingTTL)); err != nil {
		zap.L().Error("Failed to purge expired pending verifications", zap.Error(err))
	}
}

func (r *Registration) deliverCode(email, code string) {
	if r.Mailer == nil {
		return
	}

	subject := "Your iSmartShop confirmation code"
	text := fmt.Sprintf("Your confirmation code: %s", code)
	html := fmt.Sprintf("<p>Your confirmation code: <b>%s</b></p><br>Please don't share it with anyone.", code)

	if err := r.Mailer.Send(email, subject, html, text); err != nil {
		// Delivery is an external collaborator's problem, never the
		// registration's. The caller already has its code stored.
		zap.L().Error("Failed to send verification email", zap.Error(err), zap.String("email", email))
	}
}

// generateCode draws a uniform 6-digit code. It is a usability code, not a
// security token; rate limiting delivery is handled elsewhere.
func generateCode() string {
	return fmt.Sprintf("%d", 100000+rand.IntN(900000))
}
