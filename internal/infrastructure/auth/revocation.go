package auth

// RevocationPolicy decides whether structurally valid, non-expired claims
// are still honored. It runs after signature and expiry checks.
type RevocationPolicy interface {
	IsRevoked(claims *Claims) bool
}

// AdminOnly honors a token only if its claims carry the admin flag; every
// other token is treated as revoked for protected routes. Non-exempt routes
// are therefore reachable by admin identities only.
type AdminOnly struct{}

func (AdminOnly) IsRevoked(claims *Claims) bool {
	return !claims.IsAdmin
}
