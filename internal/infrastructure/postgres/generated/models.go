package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Account struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Balance   pgtype.Numeric     `json:"balance"`
	Version   int64              `json:"version"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Icon string `json:"icon"`
}

type OutboxEvent struct {
	ID            string             `json:"id"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	PublishedAt   pgtype.Timestamptz `json:"published_at"`
	Published     bool               `json:"published"`
}

type Transaction struct {
	ID          string             `json:"id"`
	Type        string             `json:"type"`
	Amount      pgtype.Numeric     `json:"amount"`
	Category    string             `json:"category"`
	Division    string             `json:"division"`
	Description string             `json:"description"`
	Date        pgtype.Timestamptz `json:"date"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}

type Transfer struct {
	ID            string             `json:"id"`
	FromAccountID string             `json:"from_account_id"`
	ToAccountID   string             `json:"to_account_id"`
	Amount        pgtype.Numeric     `json:"amount"`
	Description   string             `json:"description"`
	Date          pgtype.Timestamptz `json:"date"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}
