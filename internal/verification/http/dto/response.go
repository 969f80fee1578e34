package dto

import (
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/verification/usecase"
)

// SendEmailResponse carries the token validity hint plus the
// development-mode token echo.
type SendEmailResponse struct {
	ExpiresIn         string `json:"expiresIn,omitempty"`
	VerificationToken string `json:"verificationToken,omitempty"`
}

// SendPhoneResponse carries the development-mode code echo.
type SendPhoneResponse struct {
	VerificationCode string `json:"verificationCode,omitempty"`
}

// MapEmailSendOutput converts a send result to the email response, or nil
// when there is nothing to carry.
func MapEmailSendOutput(output *usecase.SendOutput) any {
	if output.Token == "" && output.ExpiresIn == "" {
		return nil
	}
	return SendEmailResponse{
		ExpiresIn:         output.ExpiresIn,
		VerificationToken: output.Token,
	}
}

// MapPhoneSendOutput converts a send result to the phone response, or nil
// when there is nothing to carry.
func MapPhoneSendOutput(output *usecase.SendOutput) any {
	if output.Code == "" {
		return nil
	}
	return SendPhoneResponse{VerificationCode: output.Code}
}
