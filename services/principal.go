package services

// Principal is the authenticated caller as seen by the service layer. The
// admin capability is resolved once by the auth middleware and carried here,
// not re-queried per handler.
type Principal struct {
	UserID  uint
	IsAdmin bool
}

// CanAccess reports whether the principal may read or mutate a record owned
// by ownerID.
func (p Principal) CanAccess(ownerID uint) bool {
	return p.IsAdmin || p.UserID == ownerID
}
