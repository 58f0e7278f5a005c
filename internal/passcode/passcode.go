package passcode

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"
)

const (
	codeMin = 100001
	codeMax = 999999
)

// Passcode is a one-time passcode issued to a returning visitor's phone.
// Several live passcodes may exist for the same number; issuing a new one
// never invalidates a prior unexpired one.
type Passcode struct {
	PhoneNumber string    `json:"phoneNumber"`
	Code        string    `json:"code"`
	IssuedAt    time.Time `json:"issuedAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Expired reports whether the passcode is past its expiry at the given time.
func (p Passcode) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// Store persists issued passcodes. Records die at expiry; nothing deletes
// them explicitly.
type Store interface {
	Put(ctx context.Context, p Passcode) error
	Active(ctx context.Context, phoneNumber string) ([]Passcode, error)
}

// Issuer generates and persists one-time passcodes with a fixed expiry
// window.
type Issuer struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// NewIssuer creates an issuer with the given expiry window.
func NewIssuer(store Store, ttl time.Duration) *Issuer {
	return &Issuer{store: store, ttl: ttl, now: time.Now}
}

// Issue generates a fresh 6-digit code for the phone number, persists it with
// expiry = issuance time + the configured window, and returns it.
func (i *Issuer) Issue(ctx context.Context, phoneNumber string) (Passcode, error) {
	issued := i.now().UTC()
	p := Passcode{
		PhoneNumber: phoneNumber,
		Code:        generateCode(),
		IssuedAt:    issued,
		ExpiresAt:   issued.Add(i.ttl),
	}

	if err := i.store.Put(ctx, p); err != nil {
		return Passcode{}, fmt.Errorf("store passcode: %w", err)
	}
	return p, nil
}

// Verify reports whether code is valid for the phone number: it must match a
// stored record and be unexpired. Outstanding codes stay valid when newer
// ones are issued; the SMS tells recipients to use the most recent one, but
// the contract does not revoke the others.
func (i *Issuer) Verify(ctx context.Context, phoneNumber, code string) (bool, error) {
	active, err := i.store.Active(ctx, phoneNumber)
	if err != nil {
		return false, fmt.Errorf("load passcodes: %w", err)
	}

	now := i.now().UTC()
	for _, p := range active {
		if p.Code == code && !p.Expired(now) {
			return true, nil
		}
	}
	return false, nil
}

// generateCode draws uniformly from [100001, 999999], independent of any
// previously issued code.
func generateCode() string {
	return strconv.Itoa(codeMin + rand.Intn(codeMax-codeMin+1))
}
