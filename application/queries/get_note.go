package queries

import "errors"

// GetNoteQuery represents a query to get a single note
type GetNoteQuery struct {
	UserID string
	NoteID string
}

// Validate validates the GetNoteQuery
func (q GetNoteQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.NoteID == "" {
		return errors.New("note ID is required")
	}
	return nil
}

// GetNoteResult represents the result of getting a note
type GetNoteResult struct {
	ID        string   `json:"id"`
	UserID    string   `json:"userId"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Format    string   `json:"format"`
	Position  Position `json:"position"`
	Tags      []string `json:"tags"`
	Status    string   `json:"status"`
	Version   int      `json:"version"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

// Position represents canvas coordinates
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
