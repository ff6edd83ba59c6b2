package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eventhub/registration-system/internal/core/domain"
)

const collectionTickets = "tickets"

type TicketRepository struct {
	col *mongo.Collection
}

func NewTicketRepository(db *mongo.Database) *TicketRepository {
	return &TicketRepository{col: db.Collection(collectionTickets)}
}

// Insert persists a new ticket document. The unique (account_id, event_id)
// index turns a concurrent duplicate into ErrDuplicateRegistration.
func (r *TicketRepository) Insert(ctx context.Context, t *domain.Ticket) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, t)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateRegistration
		}
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (r *TicketRepository) FindByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.Ticket
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	return &t, nil
}

func (r *TicketRepository) FindByPair(ctx context.Context, accountID, eventID string) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.Ticket
	err := r.col.FindOne(ctx, bson.M{"account_id": accountID, "event_id": eventID}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	return &t, nil
}

// List returns tickets newest first, optionally filtered by event.
func (r *TicketRepository) List(ctx context.Context, eventID string) ([]*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if eventID != "" {
		filter["event_id"] = eventID
	}

	cur, err := r.col.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "issued_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer cur.Close(ctx)

	var tickets []*domain.Ticket
	for cur.Next(ctx) {
		var t domain.Ticket
		if err := cur.Decode(&t); err != nil {
			return nil, fmt.Errorf("decode ticket: %w", err)
		}
		tickets = append(tickets, &t)
	}
	return tickets, cur.Err()
}

// ClaimScan flips the ticket unscanned→scanned in a single conditional
// update. Two simultaneous scans of the same ticket can never both match the
// scanned:false filter, so at most one caller receives the updated document.
func (r *TicketRepository) ClaimScan(ctx context.Context, ticketID string, at time.Time, by string) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": ticketID, "scanned": false}
	update := bson.M{"$set": bson.M{
		"scanned":    true,
		"scanned_at": at,
		"scanned_by": by,
	}}

	var t domain.Ticket
	err := r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("claim scan: %w", err)
	}
	return &t, nil
}

// EnsureIndexes creates the unique (account_id, event_id) index that makes
// the one-ticket-per-pair invariant hold under concurrent writers, plus a
// lookup index by event.
func (r *TicketRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "account_id", Value: 1}, {Key: "event_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "event_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
