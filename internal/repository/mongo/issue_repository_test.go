package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/issueboard/issueboard/internal/config"
	"github.com/issueboard/issueboard/internal/domain"
	"github.com/issueboard/issueboard/internal/pkg/database"
	apperrors "github.com/issueboard/issueboard/internal/pkg/errors"
	"github.com/issueboard/issueboard/internal/pkg/id"
	"github.com/issueboard/issueboard/internal/pkg/logger"
)

func TestNormalizeTime(t *testing.T) {
	want, _ := time.Parse(time.RFC3339, "2024-03-01T10:00:00Z")

	tests := []struct {
		name string
		in   interface{}
		want time.Time
	}{
		{"bson datetime", primitive.NewDateTimeFromTime(want), want},
		{"time value", want, want},
		{"legacy string", "2024-03-01T10:00:00Z", want},
		{"unparseable string", "yesterday-ish", time.Time{}},
		{"nil", nil, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, normalizeTime(tt.in).Equal(tt.want))
		})
	}
}

func TestIssueDocumentRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	issue := &domain.Issue{
		ID:         id.New(),
		Project:    "apitest",
		IssueTitle: "Title",
		IssueText:  "text",
		CreatedBy:  "Functional Test",
		Open:       true,
		CreatedOn:  now,
		UpdatedOn:  now,
	}

	got := fromDomain(issue).toDomain()

	assert.Equal(t, issue.ID, got.ID)
	assert.Equal(t, issue.Project, got.Project)
	assert.Equal(t, issue.IssueTitle, got.IssueTitle)
	assert.Equal(t, "", got.AssignedTo)
	assert.Equal(t, "", got.StatusText)
	assert.True(t, got.Open)
	assert.True(t, got.CreatedOn.Equal(now))
	assert.True(t, got.UpdatedOn.Equal(now))
}

// getTestDB returns a database connection for integration tests.
// Skips the test if the database is not available.
func getTestDB(t *testing.T) *database.MongoDB {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("Skipping integration test: MONGO_TEST_URI not set")
		return nil
	}

	_ = logger.Init(logger.Config{Level: "error", Format: "json"})

	cfg := config.MongoConfig{
		URI:            uri,
		Database:       os.Getenv("MONGO_TEST_DB"),
		ConnectTimeout: 5 * time.Second,
	}
	if cfg.Database == "" {
		cfg.Database = "test_issueboard"
	}

	db, err := database.NewMongo(context.Background(), cfg)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to MongoDB: %v", err)
		return nil
	}

	return db
}

func cleanupIssues(t *testing.T, db *database.MongoDB, project string) {
	t.Helper()
	_, _ = db.Database.Collection(issuesCollection).DeleteMany(
		context.Background(), bson.M{"project": project})
}

func newTestIssue(project string) *domain.Issue {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &domain.Issue{
		ID:         id.New(),
		Project:    project,
		IssueTitle: "Title",
		IssueText:  "text",
		CreatedBy:  "Functional Test",
		Open:       true,
		CreatedOn:  now,
		UpdatedOn:  now,
	}
}

func TestIssueRepository_InsertAndGet(t *testing.T) {
	db := getTestDB(t)
	if db == nil {
		return
	}
	defer db.Close(context.Background())

	repo := NewIssueRepository(db)
	ctx := context.Background()
	project := "repo-insert-test"

	cleanupIssues(t, db, project)
	defer cleanupIssues(t, db, project)

	issue := newTestIssue(project)
	require.NoError(t, repo.Insert(ctx, issue))

	got, err := repo.GetByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, issue.ID, got.ID)
	assert.Equal(t, issue.IssueTitle, got.IssueTitle)
	assert.True(t, got.CreatedOn.Equal(issue.CreatedOn))
}

func TestIssueRepository_GetByID_NotFound(t *testing.T) {
	db := getTestDB(t)
	if db == nil {
		return
	}
	defer db.Close(context.Background())

	repo := NewIssueRepository(db)

	_, err := repo.GetByID(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestIssueRepository_ListByProject(t *testing.T) {
	db := getTestDB(t)
	if db == nil {
		return
	}
	defer db.Close(context.Background())

	repo := NewIssueRepository(db)
	ctx := context.Background()
	project := "repo-list-test"

	cleanupIssues(t, db, project)
	defer cleanupIssues(t, db, project)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Insert(ctx, newTestIssue(project)))
	}
	require.NoError(t, repo.Insert(ctx, newTestIssue("repo-list-other")))
	defer cleanupIssues(t, db, "repo-list-other")

	issues, err := repo.ListByProject(ctx, project)
	require.NoError(t, err)
	assert.Len(t, issues, 3)
	for _, issue := range issues {
		assert.Equal(t, project, issue.Project)
	}
}

func TestIssueRepository_UpdateByID(t *testing.T) {
	db := getTestDB(t)
	if db == nil {
		return
	}
	defer db.Close(context.Background())

	repo := NewIssueRepository(db)
	ctx := context.Background()
	project := "repo-update-test"

	cleanupIssues(t, db, project)
	defer cleanupIssues(t, db, project)

	issue := newTestIssue(project)
	require.NoError(t, repo.Insert(ctx, issue))

	title := "New title"
	open := false
	update := domain.IssueUpdate{
		IssueTitle: &title,
		Open:       &open,
		UpdatedOn:  issue.UpdatedOn.Add(time.Second),
	}
	require.NoError(t, repo.UpdateByID(ctx, issue.ID, update))

	got, err := repo.GetByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, "New title", got.IssueTitle)
	assert.False(t, got.Open)
	assert.Equal(t, issue.IssueText, got.IssueText)
	assert.True(t, got.UpdatedOn.After(got.CreatedOn))
}

func TestIssueRepository_UpdateByID_NotFound(t *testing.T) {
	db := getTestDB(t)
	if db == nil {
		return
	}
	defer db.Close(context.Background())

	repo := NewIssueRepository(db)

	title := "New title"
	err := repo.UpdateByID(context.Background(), id.New(), domain.IssueUpdate{
		IssueTitle: &title,
		UpdatedOn:  time.Now(),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestIssueRepository_DeleteByID(t *testing.T) {
	db := getTestDB(t)
	if db == nil {
		return
	}
	defer db.Close(context.Background())

	repo := NewIssueRepository(db)
	ctx := context.Background()
	project := "repo-delete-test"

	cleanupIssues(t, db, project)
	defer cleanupIssues(t, db, project)

	issue := newTestIssue(project)
	require.NoError(t, repo.Insert(ctx, issue))

	require.NoError(t, repo.DeleteByID(ctx, issue.ID))

	_, err := repo.GetByID(ctx, issue.ID)
	assert.True(t, apperrors.IsNotFound(err))

	// delete is idempotent: a second delete of the same id succeeds
	require.NoError(t, repo.DeleteByID(ctx, issue.ID))
}
