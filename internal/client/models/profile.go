package models

import (
	"strings"
	"time"
)

type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName prefers "First Last", then the first name, then the email.
func DisplayName(p Profile) string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	case p.Email != "":
		return p.Email
	}
	return "User"
}

// Initials returns up to two upper-case letters for an avatar placeholder.
// Without names, the local part of the email is split on dots.
func Initials(p Profile) string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return strings.ToUpper(firstRunes(p.FirstName, 1) + firstRunes(p.LastName, 1))
	case p.FirstName != "":
		return strings.ToUpper(firstRunes(p.FirstName, 2))
	case p.Email != "":
		local, _, _ := strings.Cut(p.Email, "@")
		words := strings.Split(local, ".")
		if len(words) >= 2 && words[0] != "" && words[1] != "" {
			return strings.ToUpper(firstRunes(words[0], 1) + firstRunes(words[1], 1))
		}
		return strings.ToUpper(firstRunes(words[0], 2))
	}
	return "U"
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
