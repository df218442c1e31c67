package tests

import (
	"math/rand"
	"time"
)

// RandomString returns a random alphanumeric string of length 10
func RandomString() string {
	return RandomStringWithLen(10)
}

// RandomStringWithLen returns a random alphanumeric string of length n
func RandomStringWithLen(n int) string {
	var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")
	s := make([]rune, n)
	for i := range s {
		s[i] = letters[rand.Intn(len(letters))] //nolint: gosec
	}
	return string(s)
}

// RandomCurrency returns a random upper case code of 3 letters, never one of the well known codes
func RandomCurrency() string {
	var letters = []rune("QWJKVZ")
	s := make([]rune, 3)
	for i := range s {
		s[i] = letters[rand.Intn(len(letters))] //nolint: gosec
	}
	return string(s)
}

// RandomDuration returns a random number of whole seconds below 10
func RandomDuration() time.Duration {
	return time.Second * time.Duration(rand.Intn(10)) //nolint: gosec
}
