package postgres_adapter

import (
	"context"
	"errors"
	"fmt"

	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"

	"github.com/jackc/pgx/v5"
)

// DocumentStore хранит документы в таблице documents (collection, id, data jsonb).
type DocumentStore struct {
	db dbtx
}

func NewDocumentStore(db dbtx) (*DocumentStore, error) {
	if db == nil {
		return nil, errors.New("document store: db cannot be nil")
	}
	return &DocumentStore{db: db}, nil
}

// Read не считает отсутствие документа ошибкой.
func (s *DocumentStore) Read(ctx context.Context, collection, id string) (*domain.Document, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "DocumentStore",
		"method":     "Read",
		"collection": collection,
		"doc_id":     id,
	})

	query := `SELECT data FROM documents WHERE collection = $1 AND id = $2`

	logger.Debug("Executing query to read document", nil)
	var data []byte
	err := s.db.QueryRow(ctx, query, collection, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Debug("Document does not exist", nil)
			return &domain.Document{Collection: collection, ID: id, Exists: false}, nil
		}
		logger.Error("Failed to read document", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to read document %s/%s: %w", collection, id, err)
	}

	logger.Debug("Document read", port.Fields{"bytes": len(data)})
	return &domain.Document{Collection: collection, ID: id, Exists: true, Data: data}, nil
}

// Put - upsert документа; им пользуются CLI и тесты для заполнения коллекции.
func (s *DocumentStore) Put(ctx context.Context, collection, id string, data []byte) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "DocumentStore",
		"method":     "Put",
		"collection": collection,
		"doc_id":     id,
	})

	query := `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`

	if _, err := s.db.Exec(ctx, query, collection, id, data); err != nil {
		logger.Error("Failed to upsert document", err, nil)
		return fmt.Errorf("failed to upsert document %s/%s: %w", collection, id, err)
	}
	logger.Info("Document stored", nil)
	return nil
}
