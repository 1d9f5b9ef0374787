package localauth

import (
	"sync"

	"github.com/google/uuid"

	domainauth "github.com/hrbrew/hrbrew-api/internal/domain/auth"
	"github.com/hrbrew/hrbrew-api/internal/domain/model"
)

// Directory is an in-memory user/link directory backed by the credential
// table. The service layer falls back to it when the database path is
// unavailable, so a demo deployment keeps working without Postgres.
type Directory struct {
	mu    sync.RWMutex
	users []model.UserWithLinks
}

// NewDirectory builds a directory from the source's profiles.
func NewDirectory(src *Source) *Directory {
	profiles := src.Profiles()
	users := make([]model.UserWithLinks, 0, len(profiles))
	for _, p := range profiles {
		users = append(users, model.UserWithLinks{
			ID:         p.ID,
			Username:   p.Username,
			Email:      p.Email,
			FullName:   p.FullName,
			Department: p.Department,
			IsAdmin:    p.IsAdmin,
			Links:      []model.UserLink{},
		})
	}
	return &Directory{users: users}
}

// Users returns a snapshot of all directory entries.
func (d *Directory) Users() []model.UserWithLinks {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]model.UserWithLinks, len(d.users))
	for i, u := range d.users {
		u.Links = append([]model.UserLink(nil), u.Links...)
		out[i] = u
	}
	return out
}

// Links returns the link list for the given user id, or nil when unknown.
func (d *Directory) Links(userID string) []model.UserLink {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.ID == userID {
			return append([]model.UserLink(nil), u.Links...)
		}
	}
	return nil
}

// AddLink appends a link to the user's list and returns it. Unknown users
// are ignored and reported via ok=false.
func (d *Directory) AddLink(userID string, req *model.CreateLinkRequest) (model.UserLink, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.users {
		if d.users[i].ID != userID {
			continue
		}
		link := model.UserLink{
			ID:     uuid.New().String(),
			UserID: userID,
			Name:   req.Name,
			URL:    req.URL,
		}
		d.users[i].Links = append(d.users[i].Links, link)
		return link, true
	}
	return model.UserLink{}, false
}

// RemoveLink deletes a link by id from whichever user owns it.
func (d *Directory) RemoveLink(linkID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.users {
		links := d.users[i].Links
		for j, l := range links {
			if l.ID == linkID {
				d.users[i].Links = append(links[:j], links[j+1:]...)
				return true
			}
		}
	}
	return false
}

// Seed replaces the link lists of known users. Used by dev seeding.
func (d *Directory) Seed(links map[string][]model.UserLink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.users {
		if ls, ok := links[d.users[i].ID]; ok {
			d.users[i].Links = append([]model.UserLink(nil), ls...)
		}
	}
}

// Profile returns the password-stripped profile for a directory user.
func (d *Directory) Profile(userID string) (domainauth.UserProfile, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.ID == userID {
			return domainauth.UserProfile{
				ID:         u.ID,
				Username:   u.Username,
				Email:      u.Email,
				FullName:   u.FullName,
				Department: u.Department,
				IsAdmin:    u.IsAdmin,
			}, true
		}
	}
	return domainauth.UserProfile{}, false
}
