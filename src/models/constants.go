package models

// Roles known to the notes application
const (
	// RoleAdmin can do everything, including deleting notes
	RoleAdmin = "admin"
	// RoleEditor can create and change notes
	RoleEditor = "editor"
	// RoleViewer can only read notes
	RoleViewer = "viewer"
)

// AllRoles lists the built-in roles from most to least privileged
var AllRoles = []string{RoleAdmin, RoleEditor, RoleViewer}

// Table names
const (
	TableUsers = "users"
	TableNotes = "notes"
)
