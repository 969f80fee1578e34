package dto

import (
	accountDto "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/http/dto"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/auth/usecase"
)

// AuthResponse is the payload for successful register and login calls.
type AuthResponse struct {
	AccessToken string                  `json:"accessToken"`
	User        accountDto.UserResponse `json:"user"`

	// VerificationToken appears only on registration in development mode.
	VerificationToken string `json:"verificationToken,omitempty"`
}

// MapAuthOutputToResponse converts the engine output to the wire shape.
func MapAuthOutputToResponse(output *usecase.AuthOutput) AuthResponse {
	return AuthResponse{
		AccessToken:       output.AccessToken,
		User:              accountDto.MapAccountToResponse(output.Account),
		VerificationToken: output.VerificationToken,
	}
}

// ResetRequestResponse carries the development-mode reset token; the generic
// message travels in the envelope.
type ResetRequestResponse struct {
	ResetToken string `json:"resetToken,omitempty"`
}
