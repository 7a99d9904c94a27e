package validation

import (
	"strings"

	"github.com/ndewijer/shoken-receipts-backend/internal/api/request"
)

// ValidateCreateSession checks the user info submitted for a new session.
func ValidateCreateSession(req request.CreateSessionRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	} else if len(req.Name) > 100 {
		errors["name"] = "name must be 100 characters or less"
	}

	email := strings.TrimSpace(req.Email)
	switch {
	case email == "":
		errors["email"] = "email is required"
	case len(email) > 254:
		errors["email"] = "email must be 254 characters or less"
	case !validEmail(email):
		errors["email"] = "email must be a valid address"
	}

	if req.AuthCode != nil && len(*req.AuthCode) > 1024 {
		errors["authCode"] = "authCode must be 1024 characters or less"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func validEmail(s string) bool {
	local, domain, ok := strings.Cut(s, "@")
	return ok && local != "" && domain != "" && !strings.Contains(domain, "@")
}

// ValidateVerifyAuthCode checks the auth code submitted for verification.
func ValidateVerifyAuthCode(req request.VerifyAuthCodeRequest) error {
	switch {
	case req.AuthCode == "":
		return &Error{Fields: map[string]string{"authCode": "authCode is required"}}
	case len(req.AuthCode) > 1024:
		return &Error{Fields: map[string]string{"authCode": "authCode must be 1024 characters or less"}}
	}
	return nil
}
