// internal/app/store/audit/store.go
package audit

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Categories group event types so each can be routed separately.
const (
	CategoryBooking = "booking"
	CategoryAdmin   = "admin"
)

// Public booking outcomes.
const (
	EventBookingCreated      = "booking_created"
	EventBookingSlotTaken    = "booking_slot_taken"
	EventBookingInvalidInput = "booking_invalid_input"
)

// Admin area actions.
const (
	EventLoginSuccess             = "login_success"
	EventLoginFailed              = "login_failed"
	EventLogout                   = "logout"
	EventAppointmentStatusChanged = "appointment_status_changed"
)

// Event is one audit record. BusinessID is the SQL row id of the business
// the event touched, zero for sign-in events. Actor is the admin email, or
// the customer name on bookings.
type Event struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Timestamp     time.Time          `bson:"timestamp"`
	Category      string             `bson:"category"`
	EventType     string             `bson:"event_type"`
	BusinessID    uint               `bson:"business_id,omitempty"`
	BusinessSlug  string             `bson:"business_slug,omitempty"`
	AppointmentID string             `bson:"appointment_id,omitempty"`
	Actor         string             `bson:"actor,omitempty"`
	IP            string             `bson:"ip"`
	UserAgent     string             `bson:"user_agent,omitempty"`
	Success       bool               `bson:"success"`
	FailureReason string             `bson:"failure_reason,omitempty"`
	Details       map[string]string  `bson:"details,omitempty"`
}

// QueryFilter narrows Query and Count. Zero fields match everything.
type QueryFilter struct {
	BusinessID uint
	Category   string
	EventType  string
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int64
	Offset     int64
}

// Store reads and writes the events collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// EnsureIndexes backs the activity page (newest first, optionally by
// category) and per business history.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	newest := bson.E{Key: "timestamp", Value: -1}
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{newest}},
		{Keys: bson.D{{Key: "business_id", Value: 1}, newest}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "event_type", Value: 1}, newest}},
	})
	return err
}

// Log inserts e, filling in the ID and a UTC timestamp when unset.
func (s *Store) Log(ctx context.Context, e Event) error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// bson is the Mongo filter for f.
func (f QueryFilter) bson() bson.M {
	m := bson.M{}
	if f.BusinessID != 0 {
		m["business_id"] = f.BusinessID
	}
	if f.Category != "" {
		m["category"] = f.Category
	}
	if f.EventType != "" {
		m["event_type"] = f.EventType
	}
	ts := bson.M{}
	if f.StartTime != nil {
		ts["$gte"] = *f.StartTime
	}
	if f.EndTime != nil {
		ts["$lte"] = *f.EndTime
	}
	if len(ts) > 0 {
		m["timestamp"] = ts
	}
	return m
}

// Query returns events matching f, newest first. A zero Limit means 100.
func (s *Store) Query(ctx context.Context, f QueryFilter) ([]Event, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit).
		SetSkip(f.Offset)

	cur, err := s.c.Find(ctx, f.bson(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	events := []Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Count is the number of events matching f. Limit and Offset are ignored.
func (s *Store) Count(ctx context.Context, f QueryFilter) (int64, error) {
	return s.c.CountDocuments(ctx, f.bson())
}
