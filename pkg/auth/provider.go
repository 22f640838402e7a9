package auth

import "errors"

// ErrInvalidCredentials is returned for an unknown username or a wrong
// password. Callers get one error for both so login responses do not reveal
// which accounts exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Profile is the public user record returned by the login and profile
// endpoints. It carries display data beyond what the session token holds.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Role     Role   `json:"role"`
	JoinDate string `json:"joinDate"`
}

// Identity derives the request identity carried in tokens and contexts.
func (p Profile) Identity() Identity {
	return Identity{Username: p.Username, Role: p.Role}
}

type account struct {
	password string
	profile  Profile
}

// Provider authenticates usernames and passwords against a fixed in-memory
// account set. It stands in for a real identity provider; the rest of the
// service only sees Identity values and token claims, so swapping in a real
// backend later does not touch the API surface.
type Provider struct {
	accounts map[string]account
}

// NewMockProvider returns a Provider with the two development accounts:
// admin/admin holding the admin role and user/user holding the user role.
func NewMockProvider() *Provider {
	return &Provider{
		accounts: map[string]account{
			"admin": {
				password: "admin",
				profile: Profile{
					ID:       "1",
					Username: "admin",
					Email:    "admin@mineglass.dev",
					Avatar:   "https://images.pexels.com/photos/220453/pexels-photo-220453.jpeg?auto=compress&cs=tinysrgb&w=150",
					Role:     RoleAdmin,
					JoinDate: "2021-01-01",
				},
			},
			"user": {
				password: "user",
				profile: Profile{
					ID:       "2",
					Username: "user",
					Email:    "user@mineglass.dev",
					Avatar:   "https://images.pexels.com/photos/614810/pexels-photo-614810.jpeg?auto=compress&cs=tinysrgb&w=150",
					Role:     RoleUser,
					JoinDate: "2022-01-01",
				},
			},
		},
	}
}

// Authenticate checks the credentials and returns the matching profile.
func (p *Provider) Authenticate(username, password string) (Profile, error) {
	acct, ok := p.accounts[username]
	if !ok || acct.password != password {
		return Profile{}, ErrInvalidCredentials
	}
	return acct.profile, nil
}

// Lookup returns the profile for a known username.
func (p *Provider) Lookup(username string) (Profile, bool) {
	acct, ok := p.accounts[username]
	return acct.profile, ok
}
