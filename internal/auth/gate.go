package auth

import "errors"

// DefaultOwnerPIN is the placeholder used when no PIN is configured. Not
// suitable for production.
const DefaultOwnerPIN = "1234"

var ErrPINMismatch = errors.New("incorrect PIN")

// Gate is the second factor in front of the owner dashboard: a short
// static PIN compared against one configured value. A wrong PIN only
// re-prompts; there is no lockout or attempt tracking.
type Gate struct {
	pin string
}

func NewGate(pin string) *Gate {
	if pin == "" {
		pin = DefaultOwnerPIN
	}
	return &Gate{pin: pin}
}

func (g *Gate) Verify(pin string) error {
	if len(pin) != len(g.pin) || pin != g.pin {
		return ErrPINMismatch
	}
	return nil
}
