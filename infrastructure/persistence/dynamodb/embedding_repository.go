package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"cortex/application/ports"
	"cortex/domain/core/valueobjects"
	pkgerrors "cortex/pkg/errors"
)

// EmbeddingRepository implements ports.EmbeddingRepository using the same
// single table: PK=USER#<userID>, SK=EMBEDDING#<noteID>.
type EmbeddingRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewEmbeddingRepository creates a new EmbeddingRepository
func NewEmbeddingRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.EmbeddingRepository {
	return &EmbeddingRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// embeddingItem represents the DynamoDB item structure for an embedding
type embeddingItem struct {
	PK         string    `dynamodbav:"PK"`
	SK         string    `dynamodbav:"SK"`
	EntityType string    `dynamodbav:"EntityType"`
	NoteID     string    `dynamodbav:"NoteID"`
	UserID     string    `dynamodbav:"UserID"`
	Vector     []float64 `dynamodbav:"Vector"`
	Dimension  int       `dynamodbav:"Dimension"`
}

// Save persists an embedding
func (r *EmbeddingRepository) Save(ctx context.Context, userID string, embedding valueobjects.Embedding) error {
	item := embeddingItem{
		PK:         userPK(userID),
		SK:         fmt.Sprintf("EMBEDDING#%s", embedding.NoteID()),
		EntityType: "EMBEDDING",
		NoteID:     embedding.NoteID(),
		UserID:     userID,
		Vector:     embedding.Vector(),
		Dimension:  embedding.Dimension(),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding: %w", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		return pkgerrors.NewDatabaseError("save embedding", err)
	}

	return nil
}

// GetByNoteID retrieves a single note's embedding
func (r *EmbeddingRepository) GetByNoteID(ctx context.Context, userID, noteID string) (valueobjects.Embedding, error) {
	key, err := attributevalue.MarshalMap(map[string]string{
		"PK": userPK(userID),
		"SK": fmt.Sprintf("EMBEDDING#%s", noteID),
	})
	if err != nil {
		return valueobjects.Embedding{}, fmt.Errorf("failed to marshal key: %w", err)
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       key,
	})
	if err != nil {
		return valueobjects.Embedding{}, pkgerrors.NewDatabaseError("get embedding", err)
	}
	if out.Item == nil {
		return valueobjects.Embedding{}, pkgerrors.NewNotFoundError("embedding")
	}

	var item embeddingItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return valueobjects.Embedding{}, fmt.Errorf("failed to unmarshal embedding: %w", err)
	}

	return valueobjects.NewEmbedding(item.NoteID, item.Vector)
}

// GetByUserID retrieves all embeddings for a user, keyed by note ID
func (r *EmbeddingRepository) GetByUserID(ctx context.Context, userID string) (map[string][]float64, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("SK").BeginsWith("EMBEDDING#"))
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
		return nil, pkgerrors.NewDatabaseError("list embeddings", err)
	}

	var items []embeddingItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal embeddings: %w", err)
	}

	embeddings := make(map[string][]float64, len(items))
	for _, item := range items {
		embeddings[item.NoteID] = item.Vector
	}

	return embeddings, nil
}

// Delete removes a note's embedding
func (r *EmbeddingRepository) Delete(ctx context.Context, userID, noteID string) error {
	key, err := attributevalue.MarshalMap(map[string]string{
		"PK": userPK(userID),
		"SK": fmt.Sprintf("EMBEDDING#%s", noteID),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal key: %w", err)
	}

	if _, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       key,
	}); err != nil {
		return pkgerrors.NewDatabaseError("delete embedding", err)
	}

	return nil
}
