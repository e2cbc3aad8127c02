package generator

import (
	"github.com/nbutton23/zxcvbn-go"
)

// Strength is a zxcvbn estimate for a password.
type Strength struct {
	// Score runs from 0 (guessable) to 4 (very strong).
	Score int
	// Entropy in bits.
	Entropy float64
	// CrackTime is a human readable offline crack time, e.g. "3 hours".
	CrackTime string
}

// Label names the score band.
func (s Strength) Label() string {
	switch s.Score {
	case 0:
		return "very weak"
	case 1:
		return "weak"
	case 2:
		return "fair"
	case 3:
		return "strong"
	default:
		return "very strong"
	}
}

func (g *passwordGenerator) Strength(password string) Strength {
	return Estimate(password)
}

// Estimate runs zxcvbn over password. Empty input scores 0.
func Estimate(password string) Strength {
	if password == "" {
		return Strength{}
	}
	m := zxcvbn.PasswordStrength(password, []string{"vaultlock"})
	return Strength{
		Score:     m.Score,
		Entropy:   m.Entropy,
		CrackTime: m.CrackTimeDisplay,
	}
}
