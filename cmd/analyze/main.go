// Command analyze runs a full analysis pass over a snapshot file and prints
// the report as JSON. It is meant for local experimentation and offline
// batch runs; nothing here talks to AWS.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"cortex/application/ports"
	"cortex/application/services"
	"cortex/domain/config"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	domainservices "cortex/domain/services"
	"cortex/infrastructure/messaging/local"
	"cortex/infrastructure/persistence/memory"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// snapshot is the input file format. IDs may be arbitrary strings; non-UUID
// IDs are mapped to deterministic UUIDs so cross-references stay intact.
type snapshot struct {
	UserID     string               `json:"user_id"`
	Notes      []snapshotNote       `json:"notes"`
	Embeddings map[string][]float64 `json:"embeddings,omitempty"`
	Concepts   []snapshotConcept    `json:"concepts,omitempty"`
	Events     []snapshotEvent      `json:"events,omitempty"`
}

type snapshotNote struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
}

type snapshotConcept struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Related []string `json:"related,omitempty"`
}

type snapshotEvent struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Owner string  `json:"owner,omitempty"`
}

func main() {
	inputPath := flag.String("input", "", "path to a snapshot JSON file (required)")
	userID := flag.String("user", "", "user ID override; defaults to the snapshot's user_id")
	pretty := flag.Bool("pretty", false, "indent the JSON output")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	if *inputPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger := zap.NewNop()
	if *verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			log.Fatalf("Failed to create logger: %v", err)
		}
	}

	snap, err := loadSnapshot(*inputPath)
	if err != nil {
		log.Fatalf("Failed to load snapshot: %v", err)
	}
	if *userID != "" {
		snap.UserID = *userID
	}
	if snap.UserID == "" {
		snap.UserID = "local"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	report, err := runAnalysis(ctx, snap, logger)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	if *pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(report); err != nil {
		log.Fatalf("Failed to encode report: %v", err)
	}
}

func loadSnapshot(path string) (*snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func runAnalysis(ctx context.Context, snap *snapshot, logger *zap.Logger) (*services.AnalysisReport, error) {
	noteRepo := memory.NewNoteRepository()
	embeddingRepo := memory.NewEmbeddingRepository()
	conceptRepo := memory.NewConceptRepository()
	positions := memory.NewPositionSource()

	for _, n := range snap.Notes {
		note, err := buildNote(snap.UserID, n)
		if err != nil {
			return nil, fmt.Errorf("note %q: %w", n.ID, err)
		}
		if err := noteRepo.Save(ctx, note); err != nil {
			return nil, err
		}
	}

	for rawID, vector := range snap.Embeddings {
		embedding, err := valueobjects.NewEmbedding(canonicalID(rawID), vector)
		if err != nil {
			return nil, fmt.Errorf("embedding %q: %w", rawID, err)
		}
		if err := embeddingRepo.Save(ctx, snap.UserID, embedding); err != nil {
			return nil, err
		}
	}

	for _, c := range snap.Concepts {
		conceptID, err := valueobjects.NewNoteIDFromString(canonicalID(c.ID))
		if err != nil {
			return nil, fmt.Errorf("concept %q: %w", c.ID, err)
		}
		related := make([]string, 0, len(c.Related))
		for _, r := range c.Related {
			related = append(related, canonicalID(r))
		}
		concept := entities.ReconstructConceptNode(conceptID, snap.UserID, c.Label, related, time.Now())
		if err := conceptRepo.Save(ctx, concept); err != nil {
			return nil, err
		}
	}

	for _, ev := range snap.Events {
		positions.Record(snap.UserID, ports.PositionEvent{X: ev.X, Y: ev.Y, OwnerID: ev.Owner})
	}

	cfg := config.DefaultDomainConfig()
	extractor := domainservices.NewClaimExtractor()
	analyzer := domainservices.NewDefaultTextAnalyzer()

	insights := services.NewInsightService(
		noteRepo,
		embeddingRepo,
		conceptRepo,
		positions,
		memory.NewInsightRepository(),
		domainservices.NewDuplicateDetector(cfg),
		domainservices.NewContradictionDetector(cfg, extractor, analyzer),
		domainservices.NewMergeCandidateDetector(cfg, analyzer),
		domainservices.NewSpatialClusterDetector(cfg),
		domainservices.NewConceptClusterDetector(cfg),
		local.NewBus(logger),
		nil, // no metrics in batch mode
		logger,
	)

	return insights.RunAnalysis(ctx, snap.UserID)
}

func buildNote(userID string, n snapshotNote) (*entities.Note, error) {
	noteID, err := valueobjects.NewNoteIDFromString(canonicalID(n.ID))
	if err != nil {
		return nil, err
	}

	content, err := valueobjects.NewNoteContent(n.Title, n.Content, valueobjects.FormatPlainText)
	if err != nil {
		return nil, err
	}

	position, err := valueobjects.NewPosition(n.X, n.Y)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	note, err := entities.ReconstructNote(noteID, userID, content, position, nil, now, now, 1, entities.StatusActive)
	if err != nil {
		return nil, err
	}

	for _, tag := range n.Tags {
		if err := note.AddTag(tag); err != nil {
			return nil, fmt.Errorf("tag %q: %w", tag, err)
		}
	}
	note.MarkEventsAsCommitted()

	return note, nil
}

// canonicalID maps arbitrary snapshot identifiers to stable UUIDs so
// hand-written files can use short names like "n1"
func canonicalID(raw string) string {
	if _, err := uuid.Parse(raw); err == nil {
		return raw
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(raw)).String()
}
