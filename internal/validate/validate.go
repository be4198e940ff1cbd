// Package validate performs structural checks on submitted credentials before
// any store access. Each field runs an ordered list of normalizer/check
// functions, short-circuiting on the first failure for that field while still
// collecting failures across fields.
package validate

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

const (
	usernameMinLen = 3
	usernameMaxLen = 30
	passwordMinLen = 6
)

// check normalizes a raw field value or rejects it with a user-facing message.
type check func(value string) (string, error)

func run(value string, checks ...check) (string, error) {
	var err error
	for _, c := range checks {
		value, err = c(value)
		if err != nil {
			return "", err
		}
	}
	return value, nil
}

func trimmed(v string) (string, error) {
	return strings.TrimSpace(v), nil
}

func required(field string) check {
	return func(v string) (string, error) {
		if v == "" {
			return "", fmt.Errorf("%s is required", field)
		}
		return v, nil
	}
}

func usernameShape(v string) (string, error) {
	if len(v) < usernameMinLen || len(v) > usernameMaxLen {
		return "", fmt.Errorf("username must be between %d and %d characters", usernameMinLen, usernameMaxLen)
	}
	if !usernamePattern.MatchString(v) {
		return "", fmt.Errorf("username may only contain letters, numbers and underscores")
	}
	return v, nil
}

func emailShape(v string) (string, error) {
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v {
		return "", fmt.Errorf("enter a valid email address")
	}
	return strings.ToLower(v), nil
}

func lowercased(v string) (string, error) {
	return strings.ToLower(v), nil
}

func passwordLength(v string) (string, error) {
	if len(v) < passwordMinLen {
		return "", fmt.Errorf("password must be at least %d characters", passwordMinLen)
	}
	return v, nil
}

// SignupInput is a normalized, validated signup submission.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// Signup validates raw signup fields. On failure the returned messages are
// non-empty and ordered by field; the caller must reject the request without
// touching the credential store.
func Signup(username, email, password, confirm string) (SignupInput, []string) {
	var msgs []string

	u, err := run(username, trimmed, required("username"), usernameShape)
	if err != nil {
		msgs = append(msgs, err.Error())
	}
	e, err := run(email, trimmed, required("email"), emailShape)
	if err != nil {
		msgs = append(msgs, err.Error())
	}
	p, err := run(password, required("password"), passwordLength)
	if err != nil {
		msgs = append(msgs, err.Error())
	}
	if confirm != password {
		msgs = append(msgs, "passwords do not match")
	}

	if len(msgs) > 0 {
		return SignupInput{}, msgs
	}
	return SignupInput{Username: u, Email: e, Password: p}, nil
}

// LoginInput is a normalized login submission. The password is only checked
// for presence; its shape is the digest's concern.
type LoginInput struct {
	Email    string
	Password string
}

// Login validates raw login fields. Only presence is enforced; the email is
// lowercased so the lookup matches the normalized stored form, but a
// malformed address simply fails the lookup later with the generic message.
func Login(email, password string) (LoginInput, []string) {
	var msgs []string

	e, err := run(email, trimmed, required("email"), lowercased)
	if err != nil {
		msgs = append(msgs, err.Error())
	}
	if _, err := run(password, required("password")); err != nil {
		msgs = append(msgs, err.Error())
	}

	if len(msgs) > 0 {
		return LoginInput{}, msgs
	}
	return LoginInput{Email: e, Password: password}, nil
}
