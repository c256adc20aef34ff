// Package versioning manages the article lifecycle and history snapshots.
//
// Every content update snapshots the article's prior title/content into an
// immutable history record before the new values are written. This is
// unconditional: content-identical updates snapshot too. Status transitions
// (draft/publish) stamp the update time but never snapshot.
//
// Restore overwrites the article from a chosen snapshot without snapshotting
// the pre-restore state first. The asymmetry is intentional and matched by
// the tests; restoring twice in a row is idempotent in content terms.
//
// The snapshot write and the content update are two separate writes, not one
// transaction. A crash between them leaves a history record with no
// corresponding change. History records are additive, so an orphaned one is
// harmless; this is a known consistency gap, not something to paper over
// with a transaction wrapper.
package versioning

import (
	"context"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/wikiforge/wiki-api/pkg/apperr"
	"github.com/wikiforge/wiki-api/pkg/models"
)

// ArticleUpdate is a partial content update. Only the fields present in
// Fields are applied; Tags replaces the tag association when non-nil.
type ArticleUpdate struct {
	Fields map[string]interface{}
	Tags   *[]models.Tag
}

// Engine applies versioned mutations to articles.
type Engine struct {
	db  *gorm.DB
	log hclog.Logger
}

// NewEngine returns an engine writing through the given store handle.
func NewEngine(db *gorm.DB, log hclog.Logger) *Engine {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Engine{db: db, log: log.Named("versioning")}
}

// Update snapshots the article's current title/content and then applies the
// partial update. If the article does not exist no snapshot is written and
// the update fails with NotFound. If the snapshot write fails the update is
// not attempted, so a snapshot existing means the update was attempted.
func (e *Engine) Update(ctx context.Context, articleID uuid.UUID, upd ArticleUpdate) (*models.Article, error) {
	db := e.db.WithContext(ctx)

	var article models.Article
	if err := article.Get(db, articleID); err != nil {
		return nil, storeErr(err, "article %s", articleID)
	}

	snapshot := models.ArticleHistory{
		ArticleID: article.ID,
		Title:     article.Title,
		Content:   article.Content,
	}
	if err := snapshot.Create(db); err != nil {
		e.log.Error("history snapshot failed; update not attempted",
			"article_id", articleID,
			"error", err,
		)
		return nil, apperr.E(apperr.ErrUnavailable, "writing history snapshot")
	}
	e.log.Debug("captured history snapshot",
		"article_id", articleID,
		"history_id", snapshot.ID,
	)

	if len(upd.Fields) > 0 {
		if err := article.UpdateFields(db, upd.Fields); err != nil {
			return nil, storeErr(err, "updating article %s", articleID)
		}
	}
	if upd.Tags != nil {
		if err := db.Model(&article).Association("Tags").Replace(*upd.Tags); err != nil {
			return nil, apperr.E(apperr.ErrUnavailable, "replacing article tags")
		}
		if err := article.Get(db, articleID); err != nil {
			return nil, storeErr(err, "article %s", articleID)
		}
	}

	return &article, nil
}

// Restore overwrites the article's title/content from the given snapshot
// and stamps a new update time. The pre-restore state is not snapshotted.
func (e *Engine) Restore(ctx context.Context, articleID, historyID uuid.UUID) (*models.Article, error) {
	db := e.db.WithContext(ctx)

	var snapshot models.ArticleHistory
	if err := snapshot.Get(db, historyID); err != nil {
		return nil, storeErr(err, "history record %s", historyID)
	}

	var article models.Article
	if err := article.Get(db, articleID); err != nil {
		return nil, storeErr(err, "article %s", articleID)
	}

	err := article.UpdateFields(db, map[string]interface{}{
		"title":   snapshot.Title,
		"content": snapshot.Content,
	})
	if err != nil {
		return nil, storeErr(err, "restoring article %s", articleID)
	}

	e.log.Info("restored article from snapshot",
		"article_id", articleID,
		"history_id", historyID,
	)
	return &article, nil
}

// SaveDraft transitions the article to draft. Status-only: no snapshot.
func (e *Engine) SaveDraft(ctx context.Context, articleID uuid.UUID) (*models.Article, error) {
	return e.setStatus(ctx, articleID, models.ArticleStatusDraft)
}

// Publish transitions the article to published. Status-only: no snapshot.
func (e *Engine) Publish(ctx context.Context, articleID uuid.UUID) (*models.Article, error) {
	return e.setStatus(ctx, articleID, models.ArticleStatusPublished)
}

func (e *Engine) setStatus(ctx context.Context, articleID uuid.UUID, status string) (*models.Article, error) {
	db := e.db.WithContext(ctx)

	var article models.Article
	if err := article.Get(db, articleID); err != nil {
		return nil, storeErr(err, "article %s", articleID)
	}
	if err := article.SetStatus(db, status); err != nil {
		return nil, storeErr(err, "updating status of article %s", articleID)
	}
	return &article, nil
}

// Revisions returns the article's audit trail, oldest snapshot first.
func (e *Engine) Revisions(ctx context.Context, articleID uuid.UUID) ([]models.ArticleHistory, error) {
	records, err := models.HistoryForArticle(e.db.WithContext(ctx), articleID)
	if err != nil {
		return nil, apperr.E(apperr.ErrUnavailable, "listing history for article %s", articleID)
	}
	return records, nil
}

// storeErr translates store failures into the error taxonomy.
func storeErr(err error, format string, args ...interface{}) error {
	if models.IsNotFound(err) {
		return apperr.E(apperr.ErrNotFound, format, args...)
	}
	return apperr.E(apperr.ErrUnavailable, format, args...)
}
