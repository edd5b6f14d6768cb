package engagement

import "strconv"

// Actor identifies who likes a post: a signed-in user or a guest by IP.
type Actor struct {
	UserID uint64
	IP     string
}

// UserActor returns the actor for a signed-in user.
func UserActor(id uint64) Actor {
	return Actor{UserID: id}
}

// GuestActor returns the actor for an anonymous visitor.
func GuestActor(ip string) Actor {
	return Actor{IP: ip}
}

// Authenticated reports whether the actor is a signed-in user.
func (a Actor) Authenticated() bool {
	return a.UserID > 0
}

// ID is the key stored in like sets.
func (a Actor) ID() string {
	if a.Authenticated() {
		return strconv.FormatUint(a.UserID, 10)
	}

	return a.IP
}
