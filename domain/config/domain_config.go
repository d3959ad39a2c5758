package config

// DomainConfig holds all configurable business rules and detection thresholds
type DomainConfig struct {
	// Duplicate detection
	DuplicateScoreThreshold float64 // minimum cosine similarity to flag a pair
	MinContentLength        int     // notes shorter than this are skipped (unreliable embeddings)

	// Contradiction detection
	TopicKeywordMinLength int // title words longer than this seed topic groups
	MinTopicGroupSize     int // groups smaller than this are not compared

	// Merge candidate detection
	TitleSimilarityThreshold float64 // Jaccard threshold over title word sets
	TitleWordMinLength       int     // title words must exceed this length
	ShortContentLength       int     // content below this counts as "short"
	PrefixGroupMinSize       int     // minimum notes sharing a title prefix
	PrefixGroupMinShort      int     // minimum short notes within a prefix group

	// Spatial clustering
	CompactRegionSize   float64 // bounding box below this on both axes is one region
	GridDivisions       int     // grid cells per axis
	MinPositionsPerCell int     // cells with fewer distinct positions are not reported

	// Concept clustering
	MinClusterSize int // components smaller than this are excluded

	// Note constraints
	MaxTitleLength   int
	MinTitleLength   int
	MaxContentLength int
	MaxTagsPerNote   int

	// Query limits
	MaxNotesPerQuery int

	// Validation settings
	AllowEmptyContent bool
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		DuplicateScoreThreshold: 0.85,
		MinContentLength:        50,

		TopicKeywordMinLength: 4,
		MinTopicGroupSize:     2,

		TitleSimilarityThreshold: 0.8,
		TitleWordMinLength:       2,
		ShortContentLength:       500,
		PrefixGroupMinSize:       3,
		PrefixGroupMinShort:      3,

		CompactRegionSize:   500,
		GridDivisions:       3,
		MinPositionsPerCell: 2,

		MinClusterSize: 2,

		MaxTitleLength:   200,
		MinTitleLength:   1,
		MaxContentLength: 50000,
		MaxTagsPerNote:   20,

		MaxNotesPerQuery: 1000,

		AllowEmptyContent: false,
	}
}

// DevelopmentDomainConfig returns a permissive configuration for local work
func DevelopmentDomainConfig() *DomainConfig {
	cfg := DefaultDomainConfig()
	cfg.AllowEmptyContent = true
	cfg.MaxContentLength = 500000
	return cfg
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}
