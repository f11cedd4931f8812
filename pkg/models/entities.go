package models

// User is an account in the repository. Users are seeded at first start and
// never created or deleted through the API; only their password, permission
// and upgrade flag change.
type User struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	Password   string     `json:"password"` // plaintext by default, see auth.PasswordVerifier
	Permission Permission `json:"permission"`
	CanUpgrade bool       `json:"can_upgrade"`
}

// Public returns the user without the password field, for API responses.
func (u *User) Public() *UserInfo {
	return &UserInfo{
		ID:             u.ID,
		Username:       u.Username,
		Permission:     u.Permission,
		PermissionText: u.Permission.DisplayText(),
		CanUpgrade:     u.CanUpgrade,
	}
}

// UserInfo is the externally visible view of a user.
type UserInfo struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	Permission     Permission `json:"permission"`
	PermissionText string     `json:"permission_text"`
	CanUpgrade     bool       `json:"can_upgrade"`
}

// Document is a stored document. Documents are created and deleted, never
// edited in place.
type Document struct {
	ID         string     `json:"id"`
	Filename   string     `json:"filename"`
	Permission Permission `json:"permission"`
	Content    string     `json:"content"`
	CreatedAt  string     `json:"created_at"` // date, YYYY-MM-DD
	CreatedBy  string     `json:"created_by"` // username, immutable
}

// Summary returns the document without its content, for listings.
func (d *Document) Summary() *DocumentSummary {
	return &DocumentSummary{
		ID:             d.ID,
		Filename:       d.Filename,
		Permission:     d.Permission,
		PermissionText: d.Permission.DisplayText(),
		CreatedAt:      d.CreatedAt,
		CreatedBy:      d.CreatedBy,
	}
}

// DocumentSummary is one row of a document listing.
type DocumentSummary struct {
	ID             string     `json:"id"`
	Filename       string     `json:"filename"`
	Permission     Permission `json:"permission"`
	PermissionText string     `json:"permission_text"`
	CreatedAt      string     `json:"created_at"`
	CreatedBy      string     `json:"created_by"`
}
