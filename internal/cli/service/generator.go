package service

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const (
	MinPasswordLength     = 8
	MaxPasswordLength     = 64
	DefaultPasswordLength = 16
)

const (
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*()-_=+[]{};:,.?/"
	// похожие друг на друга символы
	similarChars = "il1LIo0O|"
)

var (
	ErrPasswordLength = errors.New("password length must be between 8 and 64")
	ErrNoCharset      = errors.New("at least one character set must be enabled")
)

// GenerateOptions — параметры генератора паролей.
type GenerateOptions struct {
	Length         int
	Lower          bool
	Upper          bool
	Digits         bool
	Symbols        bool
	ExcludeSimilar bool
}

// DefaultGenerateOptions — все наборы символов, без похожих символов.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{Length: DefaultPasswordLength, Lower: true, Upper: true, Digits: true, Symbols: true, ExcludeSimilar: true}
}

// GeneratePassword возвращает случайный пароль, в котором есть хотя бы один символ каждого включённого набора.
func GeneratePassword(o GenerateOptions) (string, error) {
	if o.Length < MinPasswordLength || o.Length > MaxPasswordLength {
		return "", ErrPasswordLength
	}
	var sets []string
	add := func(on bool, chars string) {
		if !on {
			return
		}
		if o.ExcludeSimilar {
			chars = strings.Map(func(r rune) rune {
				if strings.ContainsRune(similarChars, r) {
					return -1
				}
				return r
			}, chars)
		}
		sets = append(sets, chars)
	}
	add(o.Lower, lowerChars)
	add(o.Upper, upperChars)
	add(o.Digits, digitChars)
	add(o.Symbols, symbolChars)
	if len(sets) == 0 {
		return "", ErrNoCharset
	}

	all := strings.Join(sets, "")
	out := make([]byte, 0, o.Length)
	for _, set := range sets {
		c, err := pick(set)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	for len(out) < o.Length {
		c, err := pick(all)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	// обязательные символы не должны стоять в начале
	for i := len(out) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		k := int(j.Int64())
		out[i], out[k] = out[k], out[i]
	}
	return string(out), nil
}

func pick(chars string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
	if err != nil {
		return 0, err
	}
	return chars[n.Int64()], nil
}
