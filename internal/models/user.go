package models

import (
	"fmt"
	"time"
)

// Profile is the public-facing shape of a user served by the profile endpoint.
type Profile struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	ImageURL    string `json:"image_url,omitempty"`
	Pronouns    string `json:"pronouns,omitempty"`
	Bio         string `json:"bio,omitempty"`
	JoinedAt    string `json:"joined_at"`
}

// User is a persisted Pollster.fm account.
type User struct {
	id          string
	sequence    int
	username    string
	displayName string
	imageURL    string
	pronouns    string
	bio         string
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

// NewUser creates a user with the given username and display name.
func NewUser(sequence int, username, displayName string) *User {
	now := time.Now()
	return &User{
		sequence:    sequence,
		username:    username,
		displayName: displayName,
		createdAt:   now,
		updatedAt:   now,
	}
}

// RestoreUser rebuilds a user from database columns.
func RestoreUser(id string, sequence int, username, displayName, imageURL, pronouns, bio string, createdAt, updatedAt time.Time, deletedAt *time.Time) *User {
	return &User{
		id:          id,
		sequence:    sequence,
		username:    username,
		displayName: displayName,
		imageURL:    imageURL,
		pronouns:    pronouns,
		bio:         bio,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		deletedAt:   deletedAt,
	}
}

func (u *User) ID() string           { return u.id }
func (u *User) SetID(id string)      { u.id = id }
func (u *User) Sequence() int        { return u.sequence }
func (u *User) Username() string     { return u.username }
func (u *User) DisplayName() string  { return u.displayName }
func (u *User) ImageURL() string     { return u.imageURL }
func (u *User) Pronouns() string     { return u.pronouns }
func (u *User) Bio() string          { return u.bio }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// SetImageURL updates the avatar URL.
func (u *User) SetImageURL(url string) {
	u.imageURL = url
	u.updatedAt = time.Now()
}

// SetBio updates the profile bio.
func (u *User) SetBio(bio string) {
	u.bio = bio
	u.updatedAt = time.Now()
}

// Validate checks that the user has a username.
func (u *User) Validate() error {
	if u.username == "" {
		return fmt.Errorf("user requires a username")
	}
	return nil
}

// Profile returns the public profile shape for this user.
func (u *User) Profile() Profile {
	return Profile{
		Username:    u.username,
		DisplayName: u.displayName,
		ImageURL:    u.imageURL,
		Pronouns:    u.pronouns,
		Bio:         u.bio,
		JoinedAt:    u.createdAt.Format("2006-01-02"),
	}
}
