package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-api/internal/domain"
)

// ConversationRepository persists ticket message channels.
type ConversationRepository interface {
	Create(ctx context.Context, conversation *domain.Conversation) error
	GetByID(ctx context.Context, id string) (*domain.Conversation, error)
	GetByTicketAndType(ctx context.Context, ticketID string, convType domain.ConversationType) (*domain.Conversation, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Conversation, error)
}

type conversationRepository struct {
	pool *pgxpool.Pool
}

// NewConversationRepository builds repository.
func NewConversationRepository(pool *pgxpool.Pool) ConversationRepository {
	return &conversationRepository{pool: pool}
}

func (r *conversationRepository) Create(ctx context.Context, conversation *domain.Conversation) error {
	const query = `
        INSERT INTO conversations (ticket_id, type)
        VALUES ($1,$2)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		conversation.TicketID,
		conversation.Type,
	).Scan(&conversation.ID)
}

func (r *conversationRepository) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	const query = `SELECT id, ticket_id, type FROM conversations WHERE id=$1`
	var conversation domain.Conversation
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&conversation.ID,
		&conversation.TicketID,
		&conversation.Type,
	); err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepository) GetByTicketAndType(ctx context.Context, ticketID string, convType domain.ConversationType) (*domain.Conversation, error) {
	const query = `SELECT id, ticket_id, type FROM conversations WHERE ticket_id=$1 AND type=$2`
	var conversation domain.Conversation
	if err := r.pool.QueryRow(ctx, query, ticketID, convType).Scan(
		&conversation.ID,
		&conversation.TicketID,
		&conversation.Type,
	); err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Conversation, error) {
	const query = `SELECT id, ticket_id, type FROM conversations WHERE ticket_id=$1 ORDER BY type ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Conversation
	for rows.Next() {
		var conversation domain.Conversation
		if err := rows.Scan(
			&conversation.ID,
			&conversation.TicketID,
			&conversation.Type,
		); err != nil {
			return nil, err
		}
		result = append(result, conversation)
	}
	return result, rows.Err()
}
