// Package dto defines request and response shapes for the verification
// endpoints.
package dto

import (
	validation "github.com/jellydator/validation"
)

// SendPhoneRequest is the body of POST /auth/verify/phone/send. Carrier is
// an optional hint for the SMS gateway.
type SendPhoneRequest struct {
	Carrier string `json:"carrier"`
}

// VerifyPhoneRequest is the body of POST /auth/verify/phone/verify.
type VerifyPhoneRequest struct {
	Code string `json:"code"`
}

// Validate validates the phone verify request.
func (r VerifyPhoneRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required),
	)
}
