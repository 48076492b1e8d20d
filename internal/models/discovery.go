package models

import (
	"errors"
	"time"
)

// Thumbnail is the scaled-down rendition of an uploaded photo, computed
// by the backend.
type Thumbnail struct {
	URL string `json:"url"`
}

// Photo is the backend-expanded file resource attached to a discovery.
type Photo struct {
	Thumbnail Thumbnail `json:"thumbnail"`
}

// Discovery is a user-authored timestamped note. All server-assigned
// fields (ID, Owner, LunarPhoto) are authoritative as returned by the
// backend; the client never fills them in.
type Discovery struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Category      Category  `json:"category"`
	DiscoveryDate time.Time `json:"discoveryDate"`
	Owner         User      `json:"owner"`
	LunarPhoto    *Photo    `json:"lunarPhoto,omitempty"`
}

// OwnedBy reports whether u may delete d. This is a UI-level guard only;
// the backend enforces ownership on every delete.
func (d *Discovery) OwnedBy(u *User) bool {
	return u != nil && u.ID == d.Owner.ID
}

// PhotoAttachment is a tagged optional binary payload for a new discovery.
// A nil attachment means the submission omits the file part entirely,
// never a null placeholder.
type PhotoAttachment struct {
	FileName string
	Data     []byte
}

// DiscoveryDraft is the client-side payload for creating a discovery.
// DiscoveryDate is stamped by the store at submission time.
type DiscoveryDraft struct {
	Title         string
	Content       string
	Category      Category
	DiscoveryDate time.Time
	Photo         *PhotoAttachment
}

// Validate checks the fields the client can check without the backend.
func (d *DiscoveryDraft) Validate() error {
	if d.Title == "" {
		return errors.New("title must not be empty")
	}
	if !d.Category.Valid() {
		return errors.New("category must be one of Physics, Astronomy, Geology, Philosophy")
	}
	return nil
}
