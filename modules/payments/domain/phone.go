package domain

import (
	"fmt"
	"strings"
)

// NormalizeMSISDN converts a Kenyan mobile number to the 2547XXXXXXXX or
// 2541XXXXXXXX form M-Pesa expects.
func NormalizeMSISDN(phone string) (string, error) {
	p := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
	p = strings.TrimPrefix(p, "+")
	switch {
	case strings.HasPrefix(p, "0") && len(p) == 10:
		p = "254" + p[1:]
	case (strings.HasPrefix(p, "7") || strings.HasPrefix(p, "1")) && len(p) == 9:
		p = "254" + p
	}
	if len(p) != 12 || !strings.HasPrefix(p, "254") || (p[3] != '7' && p[3] != '1') {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	for _, c := range p {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
		}
	}
	return p, nil
}
