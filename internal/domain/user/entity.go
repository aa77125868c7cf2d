package user

// User is one row of the users table. Rows are owned outside this service;
// a User reflects the row as it was when the query ran.
type User struct {
	ID    int64  // ID is the primary key
	Name  string // Name is the display name
	Email string // Email is the contact address
}
