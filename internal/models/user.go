package models

// User is the identity snapshot held for the duration of a session.
// It is owned by the backend; the client never mutates it, only replaces
// it wholesale on login or session restoration.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
