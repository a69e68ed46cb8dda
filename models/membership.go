package models

// BungieNetUser holds fields relating to a specific Bungie membership
type BungieNetUser struct {
	MembershipID string `json:"membershipId"`
}

// Membership holds information about a single platform-linked Destiny identity.
// An account can have several of these; one is selected per run.
type Membership struct {
	DisplayName    string `json:"displayName"`
	MembershipType int    `json:"membershipType"`
	MembershipID   string `json:"membershipId"`
}
