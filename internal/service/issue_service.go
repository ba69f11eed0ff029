package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/issueboard/issueboard/internal/domain"
	"github.com/issueboard/issueboard/internal/pkg/id"
)

// IssueRepository defines the store operations the issue service consumes
type IssueRepository interface {
	Insert(ctx context.Context, issue *domain.Issue) error
	GetByID(ctx context.Context, issueID string) (*domain.Issue, error)
	ListByProject(ctx context.Context, project string) ([]domain.Issue, error)
	UpdateByID(ctx context.Context, issueID string, update domain.IssueUpdate) error
	DeleteByID(ctx context.Context, issueID string) error
}

// IssueService handles issue operations
type IssueService struct {
	issueRepo IssueRepository
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewIssueService creates a new issue service
func NewIssueService(issueRepo IssueRepository, logger *zap.Logger) *IssueService {
	return &IssueService{
		issueRepo: issueRepo,
		logger:    logger,
		now:       time.Now,
		newID:     id.New,
	}
}

// Create persists a new issue and reads it back so the response reflects
// persisted state. The identifier is store-generated unless the client
// supplied one; open defaults to true and both timestamps are set to the
// same instant.
func (s *IssueService) Create(ctx context.Context, project string, input *domain.IssueInput) (*domain.Issue, error) {
	issueID := input.ID
	if issueID == "" {
		issueID = s.newID()
	}

	now := s.now().UTC()
	issue := &domain.Issue{
		ID:         issueID,
		Project:    project,
		IssueTitle: input.IssueTitle,
		IssueText:  input.IssueText,
		CreatedBy:  input.CreatedBy,
		AssignedTo: input.AssignedTo,
		StatusText: input.StatusText,
		Open:       true,
		CreatedOn:  now,
		UpdatedOn:  now,
	}

	if err := s.issueRepo.Insert(ctx, issue); err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	// Read back the stored document rather than echoing the write payload.
	// The two calls carry no atomicity guarantee; a concurrent delete in
	// between surfaces as an error, which is accepted.
	created, err := s.issueRepo.GetByID(ctx, issue.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read back created issue: %w", err)
	}
	return created, nil
}

// List fetches all issues of a project and applies the filter as an
// exact-match conjunction over the result set in memory.
func (s *IssueService) List(ctx context.Context, project string, filter domain.Filter) ([]domain.Issue, error) {
	issues, err := s.issueRepo.ListByProject(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}

	matched := make([]domain.Issue, 0, len(issues))
	for i := range issues {
		if filter.Match(&issues[i]) {
			matched = append(matched, issues[i])
		}
	}
	return matched, nil
}

// Update applies a partial update, always refreshing updated_on
func (s *IssueService) Update(ctx context.Context, issueID string, update domain.IssueUpdate) error {
	update.UpdatedOn = s.now().UTC()
	return s.issueRepo.UpdateByID(ctx, issueID, update)
}

// Delete removes the issue addressed by the identifier
func (s *IssueService) Delete(ctx context.Context, issueID string) error {
	return s.issueRepo.DeleteByID(ctx, issueID)
}
