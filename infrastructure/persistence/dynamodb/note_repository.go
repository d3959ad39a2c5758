package dynamodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"cortex/application/ports"
	"cortex/domain/core/entities"
	"cortex/domain/core/valueobjects"
	pkgerrors "cortex/pkg/errors"
)

// NoteRepository implements ports.NoteRepository using DynamoDB single-table
// design: PK=USER#<userID>, SK=NOTE#<noteID>.
type NoteRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.NoteRepository {
	return &NoteRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// noteItem represents the DynamoDB item structure for a note
type noteItem struct {
	PK         string   `dynamodbav:"PK"`
	SK         string   `dynamodbav:"SK"`
	GSI1PK     string   `dynamodbav:"GSI1PK,omitempty"` // NOTEID#<id> for direct lookup
	GSI1SK     string   `dynamodbav:"GSI1SK,omitempty"`
	EntityType string   `dynamodbav:"EntityType"`
	NoteID     string   `dynamodbav:"NoteID"`
	UserID     string   `dynamodbav:"UserID"`
	Title      string   `dynamodbav:"Title"`
	Body       string   `dynamodbav:"Body"`
	Format     string   `dynamodbav:"Format"`
	X          float64  `dynamodbav:"X"`
	Y          float64  `dynamodbav:"Y"`
	Tags       []string `dynamodbav:"Tags"`
	Status     string   `dynamodbav:"Status"`
	Version    int      `dynamodbav:"Version"`
	CreatedAt  string   `dynamodbav:"CreatedAt"`
	UpdatedAt  string   `dynamodbav:"UpdatedAt"`
}

// Save persists a note to DynamoDB
func (r *NoteRepository) Save(ctx context.Context, note *entities.Note) error {
	item := noteItem{
		PK:         userPK(note.UserID()),
		SK:         fmt.Sprintf("NOTE#%s", note.ID().String()),
		GSI1PK:     fmt.Sprintf("NOTEID#%s", note.ID().String()),
		GSI1SK:     "METADATA",
		EntityType: "NOTE",
		NoteID:     note.ID().String(),
		UserID:     note.UserID(),
		Title:      note.Content().Title(),
		Body:       note.Content().Body(),
		Format:     string(note.Content().Format()),
		X:          note.Position().X(),
		Y:          note.Position().Y(),
		Tags:       note.Tags(),
		Status:     string(note.Status()),
		Version:    note.Version(),
		CreatedAt:  note.CreatedAt().UTC().Format(time.RFC3339),
		UpdatedAt:  note.UpdatedAt().UTC().Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal note: %w", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		r.logger.Error("failed to save note",
			zap.String("noteID", note.ID().String()),
			zap.Error(err),
		)
		return pkgerrors.NewDatabaseError("save note", err)
	}

	return nil
}

// GetByID retrieves a note by its ID via the GSI
func (r *NoteRepository) GetByID(ctx context.Context, id valueobjects.NoteID) (*entities.Note, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(fmt.Sprintf("NOTEID#%s", id.String())))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get note", err)
	}

	if len(out.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("note")
	}

	var item noteItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal note: %w", err)
	}

	return r.toEntity(item)
}

// GetByUserID retrieves all notes for a user
func (r *NoteRepository) GetByUserID(ctx context.Context, userID string) ([]*entities.Note, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("SK").BeginsWith("NOTE#"))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	notes := []*entities.Note{}
	var lastKey map[string]types.AttributeValue

	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("list notes", err)
		}

		var items []noteItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notes: %w", err)
		}

		for _, item := range items {
			note, err := r.toEntity(item)
			if err != nil {
				r.logger.Warn("skipping corrupt note item",
					zap.String("noteID", item.NoteID), zap.Error(err))
				continue
			}
			notes = append(notes, note)
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		lastKey = out.LastEvaluatedKey
	}

	return notes, nil
}

// Delete removes a note. The owning user is resolved through the GSI first.
func (r *NoteRepository) Delete(ctx context.Context, id valueobjects.NoteID) error {
	note, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	key, err := attributevalue.MarshalMap(map[string]string{
		"PK": userPK(note.UserID()),
		"SK": fmt.Sprintf("NOTE#%s", id.String()),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal key: %w", err)
	}

	if _, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       key,
	}); err != nil {
		return pkgerrors.NewDatabaseError("delete note", err)
	}

	return nil
}

// Search finds notes matching the criteria. Tag and text filtering happens
// in memory after the user partition query; note counts per user are small.
func (r *NoteRepository) Search(ctx context.Context, criteria ports.SearchCriteria) ([]*entities.Note, error) {
	notes, err := r.GetByUserID(ctx, criteria.UserID)
	if err != nil {
		return nil, err
	}

	filtered := []*entities.Note{}
	query := strings.ToLower(criteria.Query)
	for _, note := range notes {
		if criteria.Status != "" && string(note.Status()) != criteria.Status {
			continue
		}
		if !matchesTags(note, criteria.Tags) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(note.Content().Title()), query) &&
			!strings.Contains(strings.ToLower(note.Content().Body()), query) {
			continue
		}
		filtered = append(filtered, note)
	}

	if criteria.Offset >= len(filtered) {
		return []*entities.Note{}, nil
	}
	filtered = filtered[criteria.Offset:]
	if criteria.Limit > 0 && criteria.Limit < len(filtered) {
		filtered = filtered[:criteria.Limit]
	}

	return filtered, nil
}

// toEntity reconstructs a note entity from its item
func (r *NoteRepository) toEntity(item noteItem) (*entities.Note, error) {
	noteID, err := valueobjects.NewNoteIDFromString(item.NoteID)
	if err != nil {
		return nil, err
	}

	content, err := valueobjects.NewNoteContent(item.Title, item.Body, valueobjects.ContentFormat(item.Format))
	if err != nil {
		return nil, err
	}

	position, err := valueobjects.NewPosition(item.X, item.Y)
	if err != nil {
		return nil, err
	}

	createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, item.UpdatedAt)

	return entities.ReconstructNote(
		noteID,
		item.UserID,
		content,
		position,
		item.Tags,
		createdAt,
		updatedAt,
		item.Version,
		entities.NoteStatus(item.Status),
	)
}

func matchesTags(note *entities.Note, tags []string) bool {
	for _, tag := range tags {
		if !note.HasTag(tag) {
			return false
		}
	}
	return true
}

func userPK(userID string) string {
	return fmt.Sprintf("USER#%s", userID)
}
