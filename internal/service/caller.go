package service

import "fleetride/internal/domain"

// Caller is the authenticated identity making a request. Authentication
// itself happens upstream; the core trusts these facts.
type Caller struct {
	ID   string
	Role domain.Role
}
