package rbac

import "time"

// Role represents a high-level permission grouping.
type Role struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Permission represents an atomic capability persisted for administration.
// The authoritative identifier set lives in the authz catalog; rows here
// carry the display metadata and assignment relations.
type Permission struct {
	ID          int64
	Name        string
	Description string
}

// UserAccess is the flattened access profile of one user: the coarse role
// column plus assigned role names and effective permission names.
type UserAccess struct {
	UserID      int64
	Name        string
	Email       string
	Role        string
	Roles       []string
	Permissions []string
}
