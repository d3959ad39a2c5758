package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"cortex/application/services"
	pkgerrors "cortex/pkg/errors"
)

const insightSK = "INSIGHT#LATEST"

// InsightRepository implements services.InsightRepository on the single
// table: PK=USER#<userID>, SK=INSIGHT#LATEST. Only the newest report is
// kept; each analysis pass overwrites the item.
type InsightRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewInsightRepository creates a new InsightRepository
func NewInsightRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) services.InsightRepository {
	return &InsightRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// insightItem stores the report as a JSON document. The detector result
// types carry json tags, not dynamodbav tags, so a document attribute keeps
// the storage shape decoupled from the report structs.
type insightItem struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	EntityType  string `dynamodbav:"EntityType"`
	UserID      string `dynamodbav:"UserID"`
	GeneratedAt string `dynamodbav:"GeneratedAt"`
	Report      string `dynamodbav:"Report"`
}

// SaveReport persists the report, replacing any previous one for the user
func (r *InsightRepository) SaveReport(ctx context.Context, report *services.AnalysisReport) error {
	if report == nil {
		return pkgerrors.NewValidationError("report cannot be nil")
	}

	doc, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	item := insightItem{
		PK:          userPK(report.UserID),
		SK:          insightSK,
		EntityType:  "INSIGHT",
		UserID:      report.UserID,
		GeneratedAt: report.GeneratedAt.UTC().Format(time.RFC3339),
		Report:      string(doc),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal report item: %w", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		return pkgerrors.NewDatabaseError("save report", err)
	}

	return nil
}

// GetLatestReport retrieves the most recent report for a user
func (r *InsightRepository) GetLatestReport(ctx context.Context, userID string) (*services.AnalysisReport, error) {
	key, err := attributevalue.MarshalMap(map[string]string{
		"PK": userPK(userID),
		"SK": insightSK,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key: %w", err)
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       key,
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get report", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("analysis report")
	}

	var item insightItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report item: %w", err)
	}

	var report services.AnalysisReport
	if err := json.Unmarshal([]byte(item.Report), &report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}

	return &report, nil
}
