// Package mongo implements issue persistence against MongoDB.
//
// Documents use a string _id so that client-supplied identifiers are
// stored and addressable verbatim; generated identifiers are ObjectID
// hex. Timestamps are stored as native BSON datetimes, but reads
// tolerate legacy documents that persisted them as RFC3339 strings;
// normalization to time.Time happens here and nowhere else.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/issueboard/issueboard/internal/domain"
	"github.com/issueboard/issueboard/internal/pkg/database"
	apperrors "github.com/issueboard/issueboard/internal/pkg/errors"
)

const issuesCollection = "issues"

// IssueRepository handles issue data operations in MongoDB
type IssueRepository struct {
	db *database.MongoDB
}

// NewIssueRepository creates a new issue repository
func NewIssueRepository(db *database.MongoDB) *IssueRepository {
	return &IssueRepository{db: db}
}

func (r *IssueRepository) collection() *mongo.Collection {
	return r.db.Database.Collection(issuesCollection)
}

// issueDocument is the stored shape of an issue. Timestamps decode as
// interface{} so both native datetimes and legacy strings round-trip.
type issueDocument struct {
	ID         string      `bson:"_id"`
	Project    string      `bson:"project"`
	IssueTitle string      `bson:"issue_title"`
	IssueText  string      `bson:"issue_text"`
	CreatedBy  string      `bson:"created_by"`
	AssignedTo string      `bson:"assigned_to"`
	StatusText string      `bson:"status_text"`
	Open       bool        `bson:"open"`
	CreatedOn  interface{} `bson:"created_on"`
	UpdatedOn  interface{} `bson:"updated_on"`
}

func fromDomain(issue *domain.Issue) *issueDocument {
	return &issueDocument{
		ID:         issue.ID,
		Project:    issue.Project,
		IssueTitle: issue.IssueTitle,
		IssueText:  issue.IssueText,
		CreatedBy:  issue.CreatedBy,
		AssignedTo: issue.AssignedTo,
		StatusText: issue.StatusText,
		Open:       issue.Open,
		CreatedOn:  primitive.NewDateTimeFromTime(issue.CreatedOn),
		UpdatedOn:  primitive.NewDateTimeFromTime(issue.UpdatedOn),
	}
}

func (d *issueDocument) toDomain() domain.Issue {
	return domain.Issue{
		ID:         d.ID,
		Project:    d.Project,
		IssueTitle: d.IssueTitle,
		IssueText:  d.IssueText,
		CreatedBy:  d.CreatedBy,
		AssignedTo: d.AssignedTo,
		StatusText: d.StatusText,
		Open:       d.Open,
		CreatedOn:  normalizeTime(d.CreatedOn),
		UpdatedOn:  normalizeTime(d.UpdatedOn),
	}
}

// normalizeTime converts a stored timestamp to UTC time.Time. Stored
// values are BSON datetimes, but legacy documents may carry RFC3339
// strings instead.
func normalizeTime(v interface{}) time.Time {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case time.Time:
		return t.UTC()
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}
		}
		return parsed.UTC()
	default:
		return time.Time{}
	}
}

// Insert persists a new issue under its identifier
func (r *IssueRepository) Insert(ctx context.Context, issue *domain.Issue) error {
	if _, err := r.collection().InsertOne(ctx, fromDomain(issue)); err != nil {
		return fmt.Errorf("failed to insert issue: %w", err)
	}
	return nil
}

// GetByID retrieves an issue by identifier
func (r *IssueRepository) GetByID(ctx context.Context, issueID string) (*domain.Issue, error) {
	var doc issueDocument
	err := r.collection().FindOne(ctx, bson.M{"_id": issueID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("issue")
		}
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}

	issue := doc.toDomain()
	return &issue, nil
}

// ListByProject retrieves all issues whose project equals the given name.
// Only the project equality is pushed down to the store.
func (r *IssueRepository) ListByProject(ctx context.Context, project string) ([]domain.Issue, error) {
	cursor, err := r.collection().Find(ctx, bson.M{"project": project})
	if err != nil {
		return nil, fmt.Errorf("failed to query issues: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []issueDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode issues: %w", err)
	}

	issues := make([]domain.Issue, 0, len(docs))
	for i := range docs {
		issues = append(issues, docs[i].toDomain())
	}
	return issues, nil
}

// UpdateByID applies a partial update to the issue with the given
// identifier. Returns a not-found error when no document matches.
func (r *IssueRepository) UpdateByID(ctx context.Context, issueID string, update domain.IssueUpdate) error {
	set := bson.M{
		"updated_on": primitive.NewDateTimeFromTime(update.UpdatedOn),
	}
	if update.IssueTitle != nil {
		set["issue_title"] = *update.IssueTitle
	}
	if update.IssueText != nil {
		set["issue_text"] = *update.IssueText
	}
	if update.CreatedBy != nil {
		set["created_by"] = *update.CreatedBy
	}
	if update.AssignedTo != nil {
		set["assigned_to"] = *update.AssignedTo
	}
	if update.StatusText != nil {
		set["status_text"] = *update.StatusText
	}
	if update.Open != nil {
		set["open"] = *update.Open
	}

	result, err := r.collection().UpdateOne(ctx, bson.M{"_id": issueID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update issue: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("issue")
	}
	return nil
}

// DeleteByID removes the issue with the given identifier. Deleting an
// identifier that addresses no document is a success: the postcondition
// holds either way.
func (r *IssueRepository) DeleteByID(ctx context.Context, issueID string) error {
	if _, err := r.collection().DeleteOne(ctx, bson.M{"_id": issueID}); err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}
	return nil
}
