package queries

import "errors"

// Insight queries return the output of a single detector over the user's
// current notes. Each resolves against a fresh snapshot; nothing is cached
// unless the caller wraps the handler in caching middleware.

// DetectDuplicatesQuery asks for near-duplicate note pairs
type DetectDuplicatesQuery struct {
	UserID string
}

// Validate validates the DetectDuplicatesQuery
func (q DetectDuplicatesQuery) Validate() error {
	return requireUserID(q.UserID)
}

// DetectContradictionsQuery asks for conflicting numeric claims
type DetectContradictionsQuery struct {
	UserID string
}

// Validate validates the DetectContradictionsQuery
func (q DetectContradictionsQuery) Validate() error {
	return requireUserID(q.UserID)
}

// FindMergeCandidatesQuery asks for notes that look mergeable
type FindMergeCandidatesQuery struct {
	UserID string
}

// Validate validates the FindMergeCandidatesQuery
func (q FindMergeCandidatesQuery) Validate() error {
	return requireUserID(q.UserID)
}

// GetActivityRegionsQuery asks for busy regions of the canvas
type GetActivityRegionsQuery struct {
	UserID string
}

// Validate validates the GetActivityRegionsQuery
func (q GetActivityRegionsQuery) Validate() error {
	return requireUserID(q.UserID)
}

// GetAnalysisReportQuery asks for the stored result of the last full pass
type GetAnalysisReportQuery struct {
	UserID string
}

// Validate validates the GetAnalysisReportQuery
func (q GetAnalysisReportQuery) Validate() error {
	return requireUserID(q.UserID)
}

// GetConceptClustersQuery asks for connected groups of concepts
type GetConceptClustersQuery struct {
	UserID string
}

// Validate validates the GetConceptClustersQuery
func (q GetConceptClustersQuery) Validate() error {
	return requireUserID(q.UserID)
}

func requireUserID(userID string) error {
	if userID == "" {
		return errors.New("user ID is required")
	}
	return nil
}
