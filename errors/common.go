package errors

import (
	// Go Internal Packages
	"fmt"
)

// ErrAuthorityNotFound is returned by ledgers when no record exists for an authority.
var ErrAuthorityNotFound = New("authority not exists")

// ErrDuplicateAuthority is returned by ledgers when an authority is recorded twice.
var ErrDuplicateAuthority = New("authority already recorded")

func InvalidBodyErr(err error) error {
	return E(Invalid, "invalid request body", err)
}

func ValidationFailedErr(err error) error {
	return E(Invalid, "validation failed", err)
}

func EmptyParamErr(field string) error {
	ve := ValidationErrs()
	ve.Add(field, "cannot be empty")
	return E(Invalid, "validation failed", ve.Err())
}

func NoClientsErr() error {
	return E(InvalidInput, "at least provide one client", nil)
}

func BadClientNameErr(name string) error {
	return E(InvalidInput, fmt.Sprintf("client name %q cannot be empty or contain ','", name), nil)
}

func ClientsNotValidErr(err error) error {
	return E(ValidationFailed, "cannot validate clients", err)
}

func RequestPaymentErr(err error) error {
	return E(GatewayError, "cannot request payment", err)
}

// RecordTransactionErr is always critical: the gateway already holds a live
// authority that has no local record to verify against.
func RecordTransactionErr(err error) error {
	return Critical(PersistenceError, "CRITICAL: cannot add transaction to database", err)
}

func FindAuthorityErr(err error) error {
	if Is(err, ErrAuthorityNotFound) {
		return E(UnknownAuthority, "cannot find authority in db", err)
	}
	return E(PersistenceError, "cannot find authority in db", err)
}

func VerifyPaymentErr(err error) error {
	return E(VerificationFailed, "cannot verify payment", err)
}

// EmptyRecordErr is raised when a verified authority has no client to apply
// the payment to.
func EmptyRecordErr(authority string) error {
	return Critical(PersistenceError, fmt.Sprintf("CRITICAL: transaction %s has no client names", authority), nil)
}

func ApplyPaymentErr(err *ApplyError) error {
	return Critical(RegistryApplyError, "CRITICAL", err)
}
