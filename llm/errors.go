package llm

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrCredentialMissing is returned before any request is made when no API
// key is configured.
var ErrCredentialMissing = errors.New("llm: api key not configured")

// HTTPError is a non-2xx reply from the provider. Message is the provider's
// error message when it sent one, the status text otherwise.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("llm: status %d: %s", e.Status, e.Message)
}

// MalformedResponseError is returned when the provider replied but the
// content could not be used.
type MalformedResponseError struct {
	Excerpt string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("llm: malformed response: %v: %q", e.Err, e.Excerpt)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// ExcerptLength bounds the number of runes kept in MalformedResponseError.
const ExcerptLength = 200

func Excerpt(s string) string {
	if utf8.RuneCountInString(s) <= ExcerptLength {
		return s
	}
	r := []rune(s)
	return string(r[:ExcerptLength]) + "…"
}

func Malformed(content string, err error) error {
	return &MalformedResponseError{Excerpt: Excerpt(content), Err: err}
}
