// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"
	"time"

	"github.com/MKhiriev/go-quote-keeper/models"
	sq "github.com/Masterminds/squirrel"
)

const (
	quoteMetaTable      = "quote_meta"
	quoteCommentsTable  = "quote_comments"
	quoteSnapshotsTable = "quote_snapshots"
)

var (
	psql   = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	sqlite = sq.StatementBuilder.PlaceholderFormat(sq.Question)
)

var quoteMetaColumns = []string{
	"quote_id",
	"like_count",
	"liked_by::text",
	"comment_count",
	"saved_by::text",
}

var commentColumns = []string{
	"id",
	"quote_id",
	"user_id",
	"username",
	"text",
	"created_at",
}

var snapshotColumns = []string{
	"user_id",
	"kind",
	"quote_id",
	"content",
	"author",
	"tags",
	"created_at",
}

// buildSelectMetaQuery reads one quote document. forUpdate locks the row
// until the surrounding transaction ends.
func buildSelectMetaQuery(quoteID string, forUpdate bool) (string, []any, error) {
	q := psql.
		Select(quoteMetaColumns...).
		From(quoteMetaTable).
		Where(sq.Eq{"quote_id": quoteID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	return toSQL(q)
}

// buildEnsureMetaQuery creates the default document unless it exists.
// One affected row means the document was absent.
func buildEnsureMetaQuery(quoteID string) (string, []any, error) {
	return toSQL(psql.
		Insert(quoteMetaTable).
		Columns("quote_id").
		Values(quoteID).
		Suffix("ON CONFLICT (quote_id) DO NOTHING"))
}

// buildUpsertMetaQuery writes every engagement field of a document.
func buildUpsertMetaQuery(meta models.QuoteMeta, likedBy, savedBy string) (string, []any, error) {
	return toSQL(psql.
		Insert(quoteMetaTable).
		Columns("quote_id", "like_count", "liked_by", "comment_count", "saved_by").
		Values(
			meta.ID,
			meta.LikeCount,
			sq.Expr("?::text::jsonb", likedBy),
			meta.CommentCount,
			sq.Expr("?::text::jsonb", savedBy),
		).
		Suffix(`ON CONFLICT (quote_id) DO UPDATE SET
			like_count = EXCLUDED.like_count,
			liked_by = EXCLUDED.liked_by,
			comment_count = EXCLUDED.comment_count,
			saved_by = EXCLUDED.saved_by,
			updated_at = NOW()`))
}

func buildIncrementCommentCountQuery(quoteID string) (string, []any, error) {
	return toSQL(psql.
		Insert(quoteMetaTable).
		Columns("quote_id", "comment_count").
		Values(quoteID, 1).
		Suffix("ON CONFLICT (quote_id) DO UPDATE SET comment_count = quote_meta.comment_count + 1, updated_at = NOW()"))
}

func buildInsertCommentQuery(c models.Comment) (string, []any, error) {
	return toSQL(psql.
		Insert(quoteCommentsTable).
		Columns("id", "quote_id", "user_id", "username", "text").
		Values(c.ID, c.QuoteID, c.UserID, c.Username, c.Text).
		Suffix("RETURNING created_at"))
}

func buildListCommentsQuery(quoteID string, limit int) (string, []any, error) {
	q := psql.
		Select(commentColumns...).
		From(quoteCommentsTable).
		Where(sq.Eq{"quote_id": quoteID}).
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	return toSQL(q)
}

func buildCountCommentsQuery(quoteID string, settle time.Duration) (string, []any, error) {
	return toSQL(psql.
		Select("COUNT(*)").
		From(quoteCommentsTable).
		Where(sq.Eq{"quote_id": quoteID}).
		Where("created_at <= NOW() - make_interval(secs => ?)", settle.Seconds()))
}

func buildSaveSnapshotQuery(s models.QuoteSnapshot, tags string) (string, []any, error) {
	return toSQL(sqlite.
		Insert(quoteSnapshotsTable).
		Columns(snapshotColumns...).
		Values(s.UserID, string(s.Kind), s.QuoteID, s.Content, s.Author, tags, s.CreatedAt).
		Suffix(`ON CONFLICT (user_id, kind, quote_id) DO UPDATE SET
			content = excluded.content,
			author = excluded.author,
			tags = excluded.tags`))
}

func buildDeleteSnapshotQuery(userID string, kind models.SnapshotKind, quoteID string) (string, []any, error) {
	return toSQL(sqlite.
		Delete(quoteSnapshotsTable).
		Where(sq.Eq{"user_id": userID, "kind": string(kind), "quote_id": quoteID}))
}

func buildGetSnapshotQuery(userID string, kind models.SnapshotKind, quoteID string) (string, []any, error) {
	return toSQL(sqlite.
		Select(snapshotColumns...).
		From(quoteSnapshotsTable).
		Where(sq.Eq{"user_id": userID, "kind": string(kind), "quote_id": quoteID}))
}

func buildListSnapshotsQuery(userID string, kind models.SnapshotKind) (string, []any, error) {
	return toSQL(sqlite.
		Select(snapshotColumns...).
		From(quoteSnapshotsTable).
		Where(sq.Eq{"user_id": userID, "kind": string(kind)}).
		OrderBy("created_at DESC", "quote_id"))
}

func toSQL(b sq.Sqlizer) (string, []any, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
