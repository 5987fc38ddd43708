package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	letters      = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	alphanumeric = letters + "0123456789"
	passwordSet  = alphanumeric + "!@#$%^&*()-_=+[]{}<>?"
)

// GenerateOTP generates a 6-digit OTP, uniform over 000000-999999 with
// leading zeros preserved.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// GenerateSlug returns a 12-character identifier: a letter followed by
// 11 alphanumerics, so slugs never start with a digit.
func GenerateSlug() (string, error) {
	first, err := randomChar(letters)
	if err != nil {
		return "", err
	}
	slug := []byte{first}
	for i := 0; i < 11; i++ {
		c, err := randomChar(alphanumeric)
		if err != nil {
			return "", err
		}
		slug = append(slug, c)
	}
	return string(slug), nil
}

// GenerateRandomPassword returns a random password for admin-created
// accounts. The user is expected to reset it via the forgot-password flow.
func GenerateRandomPassword(length int) (string, error) {
	if length <= 0 {
		length = 12
	}
	password := make([]byte, length)
	for i := range password {
		c, err := randomChar(passwordSet)
		if err != nil {
			return "", err
		}
		password[i] = c
	}
	return string(password), nil
}

func randomChar(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[n.Int64()], nil
}
