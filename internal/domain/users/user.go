// Package users defines the authenticated user entity and its repository
// interface. Users arrive through credentials signup or an OAuth provider
// callback; the OAuth handshake itself is an external concern.
package users

import "time"

// Provider identifies an OAuth identity provider.
type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderGitHub   Provider = "github"
	ProviderFacebook Provider = "facebook"
	ProviderLinkedIn Provider = "linkedin"
	ProviderTwitter  Provider = "twitter"
)

// KnownProviders lists the accepted OAuth providers.
var KnownProviders = map[Provider]bool{
	ProviderGoogle:   true,
	ProviderGitHub:   true,
	ProviderFacebook: true,
	ProviderLinkedIn: true,
	ProviderTwitter:  true,
}

// User represents an account holder.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	PasswordHash     string    `json:"-"` // Never serialize password hash
	TwoFactorEnabled bool      `json:"twoFactorEnabled"`
	IsAdmin          bool      `json:"isAdmin"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// OAuthAccount links a user to one provider identity.
type OAuthAccount struct {
	UserID            string   `json:"userId"`
	Provider          Provider `json:"provider"`
	ProviderAccountID string   `json:"providerAccountId"`
}

// Repository defines the operations for persisting User entities.
type Repository interface {
	FindByID(id string) (*User, error)
	FindByEmail(email string) (*User, error)
	FindByProviderAccount(provider Provider, providerAccountID string) (*User, error)
	Store(user *User) error
	Update(user *User) error
	LinkProviderAccount(account *OAuthAccount) error
}
