package queries

import "errors"

// ListNotesQuery represents a query to list a user's notes
type ListNotesQuery struct {
	UserID string
	Tags   []string
	Query  string
	Limit  int
	Offset int
}

// Validate validates the ListNotesQuery
func (q ListNotesQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	if q.Offset < 0 {
		return errors.New("offset cannot be negative")
	}
	return nil
}

// ListNotesResult represents the result of listing notes
type ListNotesResult struct {
	Notes []GetNoteResult `json:"notes"`
	Total int             `json:"total"`
}
