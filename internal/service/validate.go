package service

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// ValidationError maps field names to user-facing messages.
type ValidationError map[string]string

func (v ValidationError) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, v[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateRegistration checks the registration input shape: username
// required and at most 20 characters, password required, email required
// with a plausible shape and at most 50 characters, names required and at
// most 30 characters each.
func ValidateRegistration(username, password, email, firstName, lastName string) ValidationError {
	errs := ValidationError{}
	if username == "" {
		errs["username"] = "Username is required"
	} else if utf8.RuneCountInString(username) > 20 {
		errs["username"] = "Username must be at most 20 characters"
	}
	if password == "" {
		errs["password"] = "Password is required"
	}
	switch {
	case email == "":
		errs["email"] = "Email is required"
	case utf8.RuneCountInString(email) > 50:
		errs["email"] = "Email must be at most 50 characters"
	case !emailRx.MatchString(email):
		errs["email"] = "Email must be a valid address"
	}
	if firstName == "" {
		errs["first_name"] = "First name is required"
	} else if utf8.RuneCountInString(firstName) > 30 {
		errs["first_name"] = "First name must be at most 30 characters"
	}
	if lastName == "" {
		errs["last_name"] = "Last name is required"
	} else if utf8.RuneCountInString(lastName) > 30 {
		errs["last_name"] = "Last name must be at most 30 characters"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateLogin checks that both login fields are present.
func ValidateLogin(username, password string) ValidationError {
	errs := ValidationError{}
	if username == "" {
		errs["username"] = "Username is required"
	} else if utf8.RuneCountInString(username) > 20 {
		errs["username"] = "Username must be at most 20 characters"
	}
	if password == "" {
		errs["password"] = "Password is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateFeedback checks that title and content are both non-empty.
func ValidateFeedback(title, content string) ValidationError {
	errs := ValidationError{}
	if title == "" {
		errs["title"] = "Title is required"
	}
	if content == "" {
		errs["content"] = "Content is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
