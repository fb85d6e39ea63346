package port

import (
	"context"
	"listing-web/internal/core/domain"
)

// DocumentStorePort - документное хранилище с доступом по (коллекция, id).
// Отсутствие документа - не ошибка: возвращается Document с Exists == false.
type DocumentStorePort interface {
	Read(ctx context.Context, collection, id string) (*domain.Document, error)
}

// DocumentWriterPort пишет документ целиком (upsert).
type DocumentWriterPort interface {
	Put(ctx context.Context, collection, id string, data []byte) error
}
