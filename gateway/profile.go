package gateway

// Profile is the backend's user representation, passed through to consumers
// as-is. AccessToken is never sent by the backend; the Engine merges it in
// after a successful session check.
type Profile struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	DisplayName  string   `json:"displayName"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Roles        []string `json:"roles"`
	Status       string   `json:"status"`
	LastSeen     string   `json:"lastSeen"`
	AuthProvider string   `json:"authProvider"`
	AccessToken  string   `json:"accessToken,omitempty"`
}

// HasRole reports whether the profile carries the given role.
func (p *Profile) HasRole(role string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}
