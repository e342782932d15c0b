package domain

// TokenStorageKey is where a partner's credential token is persisted.
const TokenStorageKey = "partner_jwt"

// Routes the portal navigates between.
const (
	RouteSignup   = "/partner/register"
	RouteSettings = "/settings"
)
