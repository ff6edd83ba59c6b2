package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eventhub/registration-system/internal/core/domain"
)

const collectionEvents = "events"

type EventRepository struct {
	col *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(collectionEvents)}
}

type mongoEvent struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Venue       string             `bson:"venue"`
	Capacity    int64              `bson:"capacity"`
	Registered  int64              `bson:"registered"`
	StartsAt    primitive.DateTime `bson:"starts_at"`
	EndsAt      primitive.DateTime `bson:"ends_at"`
	Active      bool               `bson:"active"`
	CreatedBy   string             `bson:"created_by"`
	CreatedAt   primitive.DateTime `bson:"created_at"`
}

func (r *EventRepository) Create(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoEvent{
		Title:       e.Title,
		Description: e.Description,
		Venue:       e.Venue,
		Capacity:    e.Capacity,
		Registered:  e.Registered,
		StartsAt:    primitive.NewDateTimeFromTime(e.StartsAt),
		EndsAt:      primitive.NewDateTimeFromTime(e.EndsAt),
		Active:      e.Active,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   primitive.NewDateTimeFromTime(e.CreatedAt),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	created := *e
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrEventNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var me mongoEvent
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&me); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return me.toDomain(), nil
}

// ListOpen returns active events ordered by start time ascending.
func (r *EventRepository) ListOpen(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"active": true},
		options.Find().SetSort(bson.D{{Key: "starts_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer cur.Close(ctx)

	var events []*domain.Event
	for cur.Next(ctx) {
		var me mongoEvent
		if err := cur.Decode(&me); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		events = append(events, me.toDomain())
	}
	return events, cur.Err()
}

// ReserveSlot increments the registration counter iff a slot remains.
// The capacity comparison runs inside the update filter, so two concurrent
// reservations for the last slot can never both match.
func (r *EventRepository) ReserveSlot(ctx context.Context, eventID string) error {
	oid, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return domain.ErrEventNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":   oid,
		"$expr": bson.M{"$lt": bson.A{"$registered", "$capacity"}},
	}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"registered": 1}})
	if err != nil {
		return fmt.Errorf("reserve slot: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	// Nothing matched: the event is missing or at capacity.
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("reserve slot: %w", err)
	}
	return domain.ErrEventFull
}

// ReleaseSlot undoes a reservation whose ticket insert lost the uniqueness
// race. Guarded so the counter can never go negative.
func (r *EventRepository) ReleaseSlot(ctx context.Context, eventID string) error {
	oid, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return domain.ErrEventNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "registered": bson.M{"$gt": 0}}
	_, err = r.col.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"registered": -1}})
	if err != nil {
		return fmt.Errorf("release slot: %w", err)
	}
	return nil
}

func (me *mongoEvent) toDomain() *domain.Event {
	return &domain.Event{
		ID:          me.ID.Hex(),
		Title:       me.Title,
		Description: me.Description,
		Venue:       me.Venue,
		Capacity:    me.Capacity,
		Registered:  me.Registered,
		StartsAt:    me.StartsAt.Time().UTC(),
		EndsAt:      me.EndsAt.Time().UTC(),
		Active:      me.Active,
		CreatedBy:   me.CreatedBy,
		CreatedAt:   me.CreatedAt.Time().UTC(),
	}
}
