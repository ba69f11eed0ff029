package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/issueboard/issueboard/internal/domain"
	"github.com/issueboard/issueboard/internal/pkg/id"
)

// MockIssueRepository mocks the issue repository
type MockIssueRepository struct {
	mock.Mock
}

func (m *MockIssueRepository) Insert(ctx context.Context, issue *domain.Issue) error {
	args := m.Called(ctx, issue)
	return args.Error(0)
}

func (m *MockIssueRepository) GetByID(ctx context.Context, issueID string) (*domain.Issue, error) {
	args := m.Called(ctx, issueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Issue), args.Error(1)
}

func (m *MockIssueRepository) ListByProject(ctx context.Context, project string) ([]domain.Issue, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Issue), args.Error(1)
}

func (m *MockIssueRepository) UpdateByID(ctx context.Context, issueID string, update domain.IssueUpdate) error {
	args := m.Called(ctx, issueID, update)
	return args.Error(0)
}

func (m *MockIssueRepository) DeleteByID(ctx context.Context, issueID string) error {
	args := m.Called(ctx, issueID)
	return args.Error(0)
}

func newTestService(repo *MockIssueRepository) *IssueService {
	return NewIssueService(repo, zap.NewNop())
}

func TestIssueService_Create(t *testing.T) {
	repo := new(MockIssueRepository)
	svc := newTestService(repo)

	issueID := id.New()
	svc.newID = func() string { return issueID }

	// GetByID hands back what Insert stored, as the real store would
	stored := &domain.Issue{}
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(issue *domain.Issue) bool {
		return issue.ID == issueID
	})).Run(func(args mock.Arguments) {
		*stored = *args.Get(1).(*domain.Issue)
	}).Return(nil)
	repo.On("GetByID", mock.Anything, issueID).Return(stored, nil)

	issue, err := svc.Create(context.Background(), "apitest", &domain.IssueInput{
		IssueTitle: "Title",
		IssueText:  "text",
		CreatedBy:  "Functional Test",
	})
	require.NoError(t, err)

	assert.True(t, id.IsValid(issue.ID))
	assert.Equal(t, "apitest", issue.Project)
	assert.Equal(t, "Title", issue.IssueTitle)
	assert.Equal(t, "", issue.AssignedTo)
	assert.Equal(t, "", issue.StatusText)
	assert.True(t, issue.Open)
	assert.False(t, issue.CreatedOn.IsZero())
	assert.True(t, issue.CreatedOn.Equal(issue.UpdatedOn))
	repo.AssertExpectations(t)
}

func TestIssueService_Create_ClientSuppliedID(t *testing.T) {
	repo := new(MockIssueRepository)
	svc := newTestService(repo)

	issueID := "65f1c2d3a4b5c6d7e8f90a1b"
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(issue *domain.Issue) bool {
		return issue.ID == issueID
	})).Return(nil)
	repo.On("GetByID", mock.Anything, issueID).
		Return(&domain.Issue{ID: issueID, Project: "apitest"}, nil)

	issue, err := svc.Create(context.Background(), "apitest", &domain.IssueInput{
		ID:         issueID,
		IssueTitle: "Title",
		IssueText:  "text",
		CreatedBy:  "Functional Test",
	})
	require.NoError(t, err)
	assert.Equal(t, issueID, issue.ID)
	repo.AssertExpectations(t)
}

func TestIssueService_Create_InsertFails(t *testing.T) {
	repo := new(MockIssueRepository)
	svc := newTestService(repo)

	repo.On("Insert", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	_, err := svc.Create(context.Background(), "apitest", &domain.IssueInput{
		IssueTitle: "Title",
		IssueText:  "text",
		CreatedBy:  "Functional Test",
	})
	require.Error(t, err)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestIssueService_List_FilterConjunction(t *testing.T) {
	repo := new(MockIssueRepository)
	svc := newTestService(repo)

	issues := []domain.Issue{
		{ID: id.New(), Project: "apitest", CreatedBy: "Alice", AssignedTo: "Bob"},
		{ID: id.New(), Project: "apitest", CreatedBy: "Alice", AssignedTo: "Bob"},
		{ID: id.New(), Project: "apitest", CreatedBy: "Alice", AssignedTo: "Eric"},
		{ID: id.New(), Project: "apitest", CreatedBy: "Carol", AssignedTo: "Eric"},
	}
	repo.On("ListByProject", mock.Anything, "apitest").Return(issues, nil)

	byCreator, err := svc.List(context.Background(), "apitest", domain.Filter{"created_by": "Alice"})
	require.NoError(t, err)
	assert.Len(t, byCreator, 3)

	both, err := svc.List(context.Background(), "apitest",
		domain.Filter{"created_by": "Alice", "assigned_to": "Bob"})
	require.NoError(t, err)
	assert.Len(t, both, 2)
}

func TestIssueService_List_EmptyResult(t *testing.T) {
	repo := new(MockIssueRepository)
	svc := newTestService(repo)

	repo.On("ListByProject", mock.Anything, "ghost-project").Return([]domain.Issue{}, nil)

	issues, err := svc.List(context.Background(), "ghost-project", domain.Filter{})
	require.NoError(t, err)
	assert.NotNil(t, issues)
	assert.Empty(t, issues)
}

func TestIssueService_Update_RefreshesUpdatedOn(t *testing.T) {
	repo := new(MockIssueRepository)
	svc := newTestService(repo)

	fixed := time.Date(2024, 3, 2, 15, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	title := "New title"
	repo.On("UpdateByID", mock.Anything, "65f1c2d3a4b5c6d7e8f90a1b",
		mock.MatchedBy(func(update domain.IssueUpdate) bool {
			return update.UpdatedOn.Equal(fixed) && update.IssueTitle != nil
		})).Return(nil)

	err := svc.Update(context.Background(), "65f1c2d3a4b5c6d7e8f90a1b",
		domain.IssueUpdate{IssueTitle: &title})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestIssueService_Delete(t *testing.T) {
	repo := new(MockIssueRepository)
	svc := newTestService(repo)

	repo.On("DeleteByID", mock.Anything, "65f1c2d3a4b5c6d7e8f90a1b").Return(nil)

	require.NoError(t, svc.Delete(context.Background(), "65f1c2d3a4b5c6d7e8f90a1b"))
	repo.AssertExpectations(t)
}
