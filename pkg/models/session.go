package models

import "time"

// Session is a bearer credential issued at login. It holds a snapshot of the
// user's permission and upgrade flag taken at creation time; the snapshot is
// not re-derived from the user record on later requests. Sessions live only
// in process memory and are destroyed on restart.
type Session struct {
	Token      string
	UserID     string
	Username   string
	Permission Permission
	CanUpgrade bool
	CreatedAt  time.Time
}
