package versioning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wikiforge/wiki-api/pkg/apperr"
	"github.com/wikiforge/wiki-api/pkg/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.ModelsToAutoMigrate()...))
	return db
}

func createArticle(t *testing.T, db *gorm.DB, title, content string) *models.Article {
	t.Helper()

	article := models.Article{Title: title, Content: content}
	require.NoError(t, article.Create(db))
	return &article
}

func historyCount(t *testing.T, db *gorm.DB, articleID uuid.UUID) int64 {
	t.Helper()

	n, err := models.CountHistoryForArticle(db, articleID)
	require.NoError(t, err)
	return n
}

func TestUpdateSnapshotsPriorState(t *testing.T) {
	db := testDB(t)
	engine := NewEngine(db, hclog.NewNullLogger())
	ctx := context.Background()

	article := createArticle(t, db, "Raft", "v1")
	assert.EqualValues(t, 0, historyCount(t, db, article.ID))

	updated, err := engine.Update(ctx, article.ID, ArticleUpdate{
		Fields: map[string]interface{}{"content": "v2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Content)
	assert.Equal(t, "Raft", updated.Title)

	records, err := engine.Revisions(ctx, article.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "v1", records[0].Content, "snapshot must hold the pre-update state")
	assert.Equal(t, "Raft", records[0].Title)
}

func TestUpdateIdenticalContentStillSnapshots(t *testing.T) {
	db := testDB(t)
	engine := NewEngine(db, hclog.NewNullLogger())
	ctx := context.Background()

	article := createArticle(t, db, "Raft", "v1")

	_, err := engine.Update(ctx, article.ID, ArticleUpdate{
		Fields: map[string]interface{}{"content": "v1"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, historyCount(t, db, article.ID))
}

func TestUpdatePartialLeavesOtherFieldsUntouched(t *testing.T) {
	db := testDB(t)
	engine := NewEngine(db, hclog.NewNullLogger())
	ctx := context.Background()

	article := createArticle(t, db, "Raft", "v1")

	updated, err := engine.Update(ctx, article.ID, ArticleUpdate{
		Fields: map[string]interface{}{"title": "Raft Consensus"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Raft Consensus", updated.Title)
	assert.Equal(t, "v1", updated.Content)
}

func TestUpdateUnknownArticle(t *testing.T) {
	db := testDB(t)
	engine := NewEngine(db, hclog.NewNullLogger())

	_, err := engine.Update(context.Background(), uuid.New(), ArticleUpdate{
		Fields: map[string]interface{}{"content": "x"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	var n int64
	require.NoError(t, db.Model(&models.ArticleHistory{}).Count(&n).Error)
	assert.EqualValues(t, 0, n, "no snapshot for a failed lookup")
}

func TestUpdateReplacesTags(t *testing.T) {
	db := testDB(t)
	engine := NewEngine(db, hclog.NewNullLogger())
	ctx := context.Background()

	article := createArticle(t, db, "Raft", "v1")

	tag := models.Tag{Name: "consensus"}
	require.NoError(t, tag.Create(db))

	updated, err := engine.Update(ctx, article.ID, ArticleUpdate{
		Tags: &[]models.Tag{tag},
	})
	require.NoError(t, err)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "consensus", updated.Tags[0].Name)

	// Tag-only updates still snapshot.
	assert.EqualValues(t, 1, historyCount(t, db, article.ID))
}

func TestRestoreRevertsWithoutSnapshotting(t *testing.T) {
	db := testDB(t)
	engine := NewEngine(db, hclog.NewNullLogger())
	ctx := context.Background()

	article := createArticle(t, db, "Raft", "v1")

	_, err := engine.Update(ctx, article.ID, ArticleUpdate{
		Fields: map[string]interface{}{"content": "v2"},
	})
	require.NoError(t, err)

	records, err := engine.Revisions(ctx, article.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)

	restored, err := engine.Restore(ctx, article.ID, records[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "v1", restored.Content)

	// The pre-restore state (v2) is gone: restore does not snapshot.
	assert.EqualValues(t, 1, historyCount(t, db, article.ID))

	// Restoring the same snapshot again is a no-op in content terms.
	restored, err = engine.Restore(ctx, article.ID, records[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "v1", restored.Content)
	assert.EqualValues(t, 1, historyCount(t, db, article.ID))
}

func TestRestoreUnknownHistory(t *testing.T) {
	db := testDB(t)
	engine := NewEngine(db, hclog.NewNullLogger())

	article := createArticle(t, db, "Raft", "v1")

	_, err := engine.Restore(context.Background(), article.ID, uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestStatusTransitionsNeverSnapshot(t *testing.T) {
	db := testDB(t)
	engine := NewEngine(db, hclog.NewNullLogger())
	ctx := context.Background()

	article := createArticle(t, db, "Raft", "v1")
	assert.Equal(t, models.ArticleStatusDraft, article.Status)

	published, err := engine.Publish(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ArticleStatusPublished, published.Status)
	assert.EqualValues(t, 0, historyCount(t, db, article.ID))

	draft, err := engine.SaveDraft(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ArticleStatusDraft, draft.Status)
	assert.EqualValues(t, 0, historyCount(t, db, article.ID))
}

func TestRevisionsOldestFirst(t *testing.T) {
	db := testDB(t)
	engine := NewEngine(db, hclog.NewNullLogger())
	ctx := context.Background()

	article := createArticle(t, db, "Raft", "v1")

	for _, content := range []string{"v2", "v3"} {
		_, err := engine.Update(ctx, article.ID, ArticleUpdate{
			Fields: map[string]interface{}{"content": content},
		})
		require.NoError(t, err)
	}

	records, err := engine.Revisions(ctx, article.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "v1", records[0].Content)
	assert.Equal(t, "v2", records[1].Content)
}
