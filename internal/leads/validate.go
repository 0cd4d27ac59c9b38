package leads

import "github.com/openfence/fence-quote-api/internal/apperr"

// Public validation messages. The honeypot message is deliberately vague
// so automated submitters learn nothing from it.
const (
	msgSpamBlocked     = "Spam blocked."
	msgNameRequired    = "Full name is required."
	msgPhoneRequired   = "Phone is required."
	msgCustomerEmail   = "Valid customer email is required."
	msgAddressRequired = "Address is required."
	msgOwnerEmail      = "Valid owner email is required."
	msgLinearFeet      = "totalLinearFeet must be greater than 0."
)

// Validate checks a normalized submission. Checks run in a fixed order
// and stop at the first failure, so a submission violating several rules
// always reports the earliest one.
func Validate(s Submission) *apperr.Error {
	if s.Website != "" {
		return apperr.BadRequest(msgSpamBlocked)
	}
	if s.FullName == "" {
		return apperr.BadRequest(msgNameRequired)
	}
	if s.Phone == "" {
		return apperr.BadRequest(msgPhoneRequired)
	}
	if !IsValidEmail(s.Email) {
		return apperr.BadRequest(msgCustomerEmail)
	}
	if s.Address == "" {
		return apperr.BadRequest(msgAddressRequired)
	}
	if !IsValidEmail(s.PushoverEmail) {
		return apperr.BadRequest(msgOwnerEmail)
	}
	if s.TotalLinearFeet <= 0 {
		return apperr.BadRequest(msgLinearFeet)
	}
	return nil
}

// RejectReason labels a validation failure for metrics.
func RejectReason(err *apperr.Error) string {
	if err == nil {
		return ""
	}
	if err.Public == msgSpamBlocked {
		return "honeypot"
	}
	return "validation"
}
