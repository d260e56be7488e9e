package domain

// User is the identity returned by the authentication endpoint.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Gender       string `json:"gender"`
	Image        string `json:"image"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// SessionRecord is the minimal identity kept in local storage after a
// successful login. Its presence is what "logged in" means.
type SessionRecord struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
}

// ProjectSession keeps only the fields a session needs.
func ProjectSession(u *User) SessionRecord {
	return SessionRecord{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
	}
}

// DisplayName is the name used in greetings.
func (s *SessionRecord) DisplayName() string {
	if s.FirstName != "" {
		return s.FirstName
	}
	return s.Username
}

// Page identifies one of the two screens.
type Page int

const (
	PageLogin Page = iota
	PageCatalog
)

// String returns a human-readable page name.
func (p Page) String() string {
	switch p {
	case PageLogin:
		return "login"
	case PageCatalog:
		return "catalog"
	default:
		return "unknown"
	}
}
