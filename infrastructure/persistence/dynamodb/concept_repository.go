package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"cortex/application/ports"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	pkgerrors "cortex/pkg/errors"
)

// ConceptRepository implements ports.ConceptRepository using the same single
// table: PK=USER#<userID>, SK=CONCEPT#<conceptID>.
type ConceptRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewConceptRepository creates a new ConceptRepository
func NewConceptRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.ConceptRepository {
	return &ConceptRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// conceptItem represents the DynamoDB item structure for a concept node
type conceptItem struct {
	PK         string   `dynamodbav:"PK"`
	SK         string   `dynamodbav:"SK"`
	EntityType string   `dynamodbav:"EntityType"`
	ConceptID  string   `dynamodbav:"ConceptID"`
	UserID     string   `dynamodbav:"UserID"`
	Label      string   `dynamodbav:"Label"`
	RelatedIDs []string `dynamodbav:"RelatedIDs"`
	CreatedAt  string   `dynamodbav:"CreatedAt"`
}

// Save persists a concept node
func (r *ConceptRepository) Save(ctx context.Context, concept *entities.ConceptNode) error {
	item := conceptItem{
		PK:         userPK(concept.UserID()),
		SK:         fmt.Sprintf("CONCEPT#%s", concept.ID().String()),
		EntityType: "CONCEPT",
		ConceptID:  concept.ID().String(),
		UserID:     concept.UserID(),
		Label:      concept.Label(),
		RelatedIDs: concept.RelatedIDs(),
		CreatedAt:  concept.CreatedAt().UTC().Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal concept: %w", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		return pkgerrors.NewDatabaseError("save concept", err)
	}

	return nil
}

// GetByUserID retrieves all concept nodes for a user
func (r *ConceptRepository) GetByUserID(ctx context.Context, userID string) ([]*entities.ConceptNode, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("SK").BeginsWith("CONCEPT#"))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list concepts", err)
	}

	var items []conceptItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal concepts: %w", err)
	}

	concepts := make([]*entities.ConceptNode, 0, len(items))
	for _, item := range items {
		conceptID, err := valueobjects.NewNoteIDFromString(item.ConceptID)
		if err != nil {
			r.logger.Warn("skipping corrupt concept item",
				zap.String("conceptID", item.ConceptID), zap.Error(err))
			continue
		}
		createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
		concepts = append(concepts, entities.ReconstructConceptNode(
			conceptID, item.UserID, item.Label, item.RelatedIDs, createdAt))
	}

	return concepts, nil
}

// Delete removes a concept node
func (r *ConceptRepository) Delete(ctx context.Context, userID, conceptID string) error {
	key, err := attributevalue.MarshalMap(map[string]string{
		"PK": userPK(userID),
		"SK": fmt.Sprintf("CONCEPT#%s", conceptID),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal key: %w", err)
	}

	if _, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       key,
	}); err != nil {
		return pkgerrors.NewDatabaseError("delete concept", err)
	}

	return nil
}
