package auth

// Identity is the verified (user, tenant) binding attached to every
// authenticated request. UserID existence and the active flag are checked
// against the store per request; CompanyID and Email come from the token
// claims and may be stale for at most the token TTL.
type Identity struct {
	UserID    string
	CompanyID string
	Email     string
}
