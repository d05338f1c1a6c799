package domain

import "strings"

// AnonymousUserID marks reviews submitted without an authenticated identity.
const AnonymousUserID = "anonymous"

// UserIdentity is what the identity provider tells us about the caller.
type UserIdentity struct {
	ID    string
	Email string
}

// DisplayName is the local part of the email, or "Anonymous".
func (u *UserIdentity) DisplayName() string {
	if u == nil || u.Email == "" {
		return "Anonymous"
	}
	name, _, _ := strings.Cut(u.Email, "@")
	if name == "" {
		return "Anonymous"
	}
	return name
}

// Initials returns up to two upper-cased letters for the avatar badge.
func (u *UserIdentity) Initials() string {
	name := u.DisplayName()
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == ' '
	})
	var out []rune
	switch len(words) {
	case 0:
		return "?"
	case 1:
		out = []rune(words[0])
		if len(out) > 2 {
			out = out[:2]
		}
	default:
		out = []rune{[]rune(words[0])[0], []rune(words[1])[0]}
	}
	return strings.ToUpper(string(out))
}

func (u *UserIdentity) userID() string {
	if u == nil || u.ID == "" {
		return AnonymousUserID
	}
	return u.ID
}
