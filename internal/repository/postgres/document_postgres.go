package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"legaldesk/internal/model"
	"legaldesk/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// The analysis payload is kept as JSONB.
type DocumentPostgres struct {
	db *sql.DB
}

func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// Save upserts a document row.
func (r *DocumentPostgres) Save(ctx context.Context, doc *model.Document) error {
	payload, err := json.Marshal(doc.Analysis)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	const q = `
		INSERT INTO analyzed_documents (id, filename, analysis, analyzed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET filename = EXCLUDED.filename, analysis = EXCLUDED.analysis, analyzed_at = EXCLUDED.analyzed_at
	`
	_, err = r.db.ExecContext(ctx, q, doc.ID, doc.Filename, payload, doc.OpenedAt)
	return err
}

func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `
		SELECT id, filename, analysis, analyzed_at
		FROM analyzed_documents
		WHERE id = $1
	`
	doc, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// List returns documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	const qCount = `SELECT COUNT(*) FROM analyzed_documents`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, filename, analysis, analyzed_at
		FROM analyzed_documents
		ORDER BY analyzed_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{Items: items, Total: total}, nil
}

func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM analyzed_documents WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*model.Document, error) {
	var (
		doc     model.Document
		payload []byte
	)
	if err := s.Scan(&doc.ID, &doc.Filename, &payload, &doc.OpenedAt); err != nil {
		return nil, err
	}
	if len(payload) > 0 && string(payload) != "null" {
		var res model.AnalysisResult
		if err := json.Unmarshal(payload, &res); err != nil {
			return nil, fmt.Errorf("decode analysis for %s: %w", doc.ID, err)
		}
		doc.Analysis = &res
	}
	return &doc, nil
}
