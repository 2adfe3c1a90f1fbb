package services

import (
	"treats/internal/models"
	"unicode/utf8"

	"github.com/gookit/validate"
)

const (
	minPasswordLength = 6
	minNameLength     = 1
	maxNameLength     = 50
	minHandleLength   = 3
	maxHandleLength   = 20
)

func isValidEmail(email string) bool {
	return validate.IsEmail(email)
}

func isValidName(name string) bool {
	return validate.RuneLength(name, minNameLength, maxNameLength)
}

func isValidPassword(password string) bool {
	return utf8.RuneCountInString(password) >= minPasswordLength
}

func isValidHandle(handle string) bool {
	return validate.RuneLength(handle, minHandleLength, maxHandleLength) && validate.IsAlphaNum(handle)
}

func isValidChannelName(name string) bool {
	return validate.RuneLength(name, models.MinChannelNameLength, models.MaxChannelNameLength)
}

func checkBody(body string, allowEmpty bool) error {
	n := utf8.RuneCountInString(body)
	if n < 1 && !allowEmpty {
		return ErrBodyTooShort
	}
	if n > models.MaxMessageLength {
		return ErrBodyTooLong
	}
	return nil
}
