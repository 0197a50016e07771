package postgres

import (
	"context"
	"fmt"

	"github.com/cwrk-planet/chat-service/internal/repository/queries"
)

// Migrate создаёт таблицы и индексы, если их ещё нет.
func Migrate(ctx context.Context, q querier) error {
	for i, stmt := range queries.Schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
