package user

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Three non-empty parts around "@" and a later ".". The excluded class is
// whitespace in the broad sense: ASCII space characters, vertical tab, every
// Unicode separator and the byte order mark.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

func (r *Record) IsNameValid() bool {
	return strings.TrimFunc(r.Name, isBlank) != ""
}

// isBlank matches the same characters the email pattern excludes. U+0085 is
// not blank.
func isBlank(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', '\uFEFF':
		return true
	}
	return unicode.In(r, unicode.Z)
}

func (r *Record) IsEmailValid() bool {
	if r.Email == "" {
		return false
	}
	return emailPattern.MatchString(r.Email)
}

// IsBioValid reports whether the bio fits MaxBioLength. Length is counted in
// characters, the same unit the storage engines use for text length.
func (r *Record) IsBioValid() bool {
	if r.Bio == nil {
		return true
	}
	return utf8.RuneCountInString(*r.Bio) <= MaxBioLength
}

// Validate runs every rule and reports failures in the order name, email, bio.
func (r *Record) Validate() ValidationResult {
	errs := []string{}
	if !r.IsNameValid() {
		errs = append(errs, MsgNameRequired)
	}
	if !r.IsEmailValid() {
		errs = append(errs, MsgInvalidEmail)
	}
	if !r.IsBioValid() {
		errs = append(errs, MsgBioTooLong)
	}
	return ValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}

// Err returns nil for a valid result, otherwise an error wrapping
// ErrInvalidRecord that lists every message.
func (v ValidationResult) Err() error {
	if v.IsValid {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(v.Errors, "; "))
}
