package api

import (
	"fmt"

	"github.com/pkg/errors"
)

// sentinel errors, match with errors.Is
var (
	ErrNotSupported       = errors.New("operation not supported")
	ErrIncompatibleMarket = errors.New("incompatible market")
	ErrCredentialsMissing = errors.New("credentials missing")
	ErrParse              = errors.New("could not parse exchange response")
	ErrTransientNetwork   = errors.New("transient network error")
)

// NotSupportedError is returned by any operation that an exchange does not implement
type NotSupportedError struct {
	Operation string
	Reason    string
}

// Error impl.
func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", ErrNotSupported, e.Operation, e.Reason)
}

// Unwrap impl.
func (e *NotSupportedError) Unwrap() error {
	return ErrNotSupported
}

// MakeErrNotSupported is a factory method
func MakeErrNotSupported(operation string, reason string) error {
	return &NotSupportedError{Operation: operation, Reason: reason}
}

// IncompatibleMarketError is returned when no market exists for a pair of currencies in either order
type IncompatibleMarketError struct {
	Exchange string
	A        string
	B        string
}

// Error impl.
func (e *IncompatibleMarketError) Error() string {
	return fmt.Sprintf("%s: no market on %s for %s and %s", ErrIncompatibleMarket, e.Exchange, e.A, e.B)
}

// Unwrap impl.
func (e *IncompatibleMarketError) Unwrap() error {
	return ErrIncompatibleMarket
}

// MakeErrIncompatibleMarket is a factory method
func MakeErrIncompatibleMarket(exchange string, a string, b string) error {
	return &IncompatibleMarketError{Exchange: exchange, A: a, B: b}
}

// CredentialsMissingError is returned when an authenticated capability is used without secrets
type CredentialsMissingError struct {
	Exchange string
}

// Error impl.
func (e *CredentialsMissingError) Error() string {
	return fmt.Sprintf("%s: api key and secret are required for authenticated calls on %s", ErrCredentialsMissing, e.Exchange)
}

// Unwrap impl.
func (e *CredentialsMissingError) Unwrap() error {
	return ErrCredentialsMissing
}

// MakeErrCredentialsMissing is a factory method
func MakeErrCredentialsMissing(exchange string) error {
	return &CredentialsMissingError{Exchange: exchange}
}

// ParseError is returned when a response does not have the expected shape
type ParseError struct {
	Context string
	Detail  string
}

// Error impl.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (%s): %s", ErrParse, e.Context, e.Detail)
}

// Unwrap impl.
func (e *ParseError) Unwrap() error {
	return ErrParse
}

// MakeErrParse is a factory method
func MakeErrParse(context string, detail string) error {
	return &ParseError{Context: context, Detail: detail}
}

// MakeErrParsef is a factory method with formatting
func MakeErrParsef(context string, format string, args ...interface{}) error {
	return &ParseError{Context: context, Detail: fmt.Sprintf(format, args...)}
}

// TransientNetworkError wraps a transport failure, the caller decides whether to retry
type TransientNetworkError struct {
	Operation string
	Cause     error
}

// Error impl.
func (e *TransientNetworkError) Error() string {
	return fmt.Sprintf("%s during %s: %s", ErrTransientNetwork, e.Operation, e.Cause)
}

// Unwrap impl.
func (e *TransientNetworkError) Unwrap() error {
	return ErrTransientNetwork
}

// MakeErrTransientNetwork is a factory method
func MakeErrTransientNetwork(operation string, cause error) error {
	return &TransientNetworkError{Operation: operation, Cause: cause}
}

// IsNotSupported is a convenience
func IsNotSupported(e error) bool {
	return errors.Is(e, ErrNotSupported)
}

// IsIncompatibleMarket is a convenience
func IsIncompatibleMarket(e error) bool {
	return errors.Is(e, ErrIncompatibleMarket)
}

// IsCredentialsMissing is a convenience
func IsCredentialsMissing(e error) bool {
	return errors.Is(e, ErrCredentialsMissing)
}

// IsParseError is a convenience
func IsParseError(e error) bool {
	return errors.Is(e, ErrParse)
}

// IsTransient is a convenience
func IsTransient(e error) bool {
	return errors.Is(e, ErrTransientNetwork)
}
