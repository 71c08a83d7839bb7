package domain

type EventType string

const (
	EventUserCreated EventType = "user_created"
	EventUserDeleted EventType = "user_deleted"
)

// DirectoryEvent announces a change to the users table.
type DirectoryEvent struct {
	Type   EventType `json:"type"`
	UserID int64     `json:"userId"`
}
