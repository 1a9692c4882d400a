package pending

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
)

var ten = big.NewInt(10)

// newCode draws OTPLength independent uniform digits from r.
func newCode(r io.Reader) (string, error) {
	var b strings.Builder
	b.Grow(OTPLength)
	for i := 0; i < OTPLength; i++ {
		n, err := rand.Int(r, ten)
		if err != nil {
			return "", fmt.Errorf("generate verification code: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

// freshCode returns a code that differs from previous.
func freshCode(r io.Reader, previous string) (string, error) {
	for {
		code, err := newCode(r)
		if err != nil {
			return "", err
		}
		if code != previous {
			return code, nil
		}
	}
}
