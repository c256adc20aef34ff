package models

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(ModelsToAutoMigrate()...))
	return db
}

func TestArticleCreateDefaults(t *testing.T) {
	db := testDB(t)

	article := Article{Title: "Raft", Content: "v1"}
	require.NoError(t, article.Create(db))
	assert.NotEqual(t, uuid.Nil, article.ID)
	assert.Equal(t, ArticleStatusDraft, article.Status)
}

func TestArticleCreateValidation(t *testing.T) {
	db := testDB(t)

	err := (&Article{Content: "v1"}).Create(db)
	require.Error(t, err, "title is required")

	err = (&Article{Title: "Raft"}).Create(db)
	require.Error(t, err, "content is required")

	err = (&Article{Title: "Raft", Content: "v1", Status: "archived"}).Create(db)
	require.Error(t, err, "unknown status is rejected")
}

func TestIncrementViewsMissingArticle(t *testing.T) {
	db := testDB(t)

	err := IncrementViews(db, uuid.New())
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestTagsByIDsPreservesInputOrder(t *testing.T) {
	db := testDB(t)

	var ids []uuid.UUID
	for _, name := range []string{"alpha", "beta", "gamma"} {
		tag := Tag{Name: name}
		require.NoError(t, tag.Create(db))
		ids = append(ids, tag.ID)
	}

	// Request in reverse creation order.
	got, err := TagsByIDs(db, []uuid.UUID{ids[2], ids[0]})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "gamma", got[0].Name)
	assert.Equal(t, "alpha", got[1].Name)
}

func TestTagUniqueName(t *testing.T) {
	db := testDB(t)

	require.NoError(t, (&Tag{Name: "consensus"}).Create(db))
	err := (&Tag{Name: "consensus"}).Create(db)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestUserUniqueEmail(t *testing.T) {
	db := testDB(t)

	a := User{Username: "a", Email: "dup@example.com", PasswordHash: "x"}
	require.NoError(t, a.Create(db))

	b := User{Username: "b", Email: "dup@example.com", PasswordHash: "x"}
	err := b.Create(db)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestCommentVotes(t *testing.T) {
	db := testDB(t)

	article := Article{Title: "Raft", Content: "v1"}
	require.NoError(t, article.Create(db))

	comment := Comment{ArticleID: article.ID, Content: "nice"}
	require.NoError(t, comment.Create(db))

	require.NoError(t, comment.Vote(db, true))
	require.NoError(t, comment.Vote(db, true))
	require.NoError(t, comment.Vote(db, false))

	var got Comment
	require.NoError(t, got.Get(db, comment.ID))
	assert.EqualValues(t, 2, got.Upvotes)
	assert.EqualValues(t, 1, got.Downvotes)
}

func TestTopLevelCommentsExcludeReplies(t *testing.T) {
	db := testDB(t)

	article := Article{Title: "Raft", Content: "v1"}
	require.NoError(t, article.Create(db))

	top := Comment{ArticleID: article.ID, Content: "top"}
	require.NoError(t, top.Create(db))
	reply := Comment{ArticleID: article.ID, Content: "reply", ParentID: &top.ID}
	require.NoError(t, reply.Create(db))

	comments, err := TopLevelComments(db, article.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "top", comments[0].Content)

	replies, err := Replies(db, top.ID)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, "reply", replies[0].Content)
}

func TestSearchArticlesFilters(t *testing.T) {
	db := testDB(t)

	tag := Tag{Name: "consensus"}
	require.NoError(t, tag.Create(db))

	tagged := Article{Title: "Raft Consensus", Content: "v1", Tags: []Tag{tag}}
	require.NoError(t, tagged.Create(db))
	plain := Article{Title: "Style Guide", Content: "v1"}
	require.NoError(t, plain.Create(db))

	hits, err := SearchArticles(db, ArticleFilter{TitleContains: "Raft"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, tagged.ID, hits[0].ID)

	hits, err = SearchArticles(db, ArticleFilter{TagID: &tag.ID})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, tagged.ID, hits[0].ID)

	hits, err = SearchArticles(db, ArticleFilter{})
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}
