package domain

import "errors"

// Authentication and authorization outcomes. All are terminal and
// user-facing; none are retried internally.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrAdminRequired      = errors.New("admin access required")
	ErrWeakPassword       = errors.New("password too weak")
	ErrEmailExists        = errors.New("email already registered")
	ErrCompanyExists      = errors.New("company already registered")
	ErrCompanyNotFound    = errors.New("company not found")
)

// Campaign lifecycle errors.
var (
	ErrCampaignNotFound    = errors.New("campaign not found")
	ErrCampaignNotEditable = errors.New("campaign is not editable in its current status")
	ErrCampaignNotSendable = errors.New("campaign cannot be sent")
	ErrCampaignSending     = errors.New("campaign is currently sending")
	ErrCampaignFinished    = errors.New("campaign already finished")
)

// Recipient errors.
var (
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrRecipientExists   = errors.New("recipient already exists in this campaign")
	ErrPhoneRequired     = errors.New("phone_number is required")
	ErrInvalidCSV        = errors.New("invalid CSV file")
)

// Smart link errors.
var (
	ErrLinkNotFound = errors.New("smart link not found")
	ErrLinkExists   = errors.New("short code already taken")
	ErrLinkInactive = errors.New("smart link is inactive")
	ErrLinkExpired  = errors.New("smart link has expired")
)
