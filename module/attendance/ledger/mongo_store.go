package ledger

import (
	"context"
	"time"

	"AProject/module/attendance/model"
	"AProject/tools/errs"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const recordCollection = "attendance_records"

// MongoStore implements Store on a Mongo collection. The update phase is one
// UpdateOne whose filter carries the dedup predicate; the insert phase is one
// InsertOne racing against a unique compound index. Both are single-document
// atomic, which is all the protocol needs.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) coll() *mongo.Collection {
	return s.db.Collection(recordCollection)
}

// EnsureIndexes creates the unique record key plus the two read-side indexes.
// Safe to call on every startup.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "meeting_id", Value: 1}, {Key: "participant_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "last_updated_at", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "meeting_id", Value: 1}, {Key: "participation_count", Value: 1}},
		},
	})
	return errors.Wrap(err, "ensure attendance indexes")
}

func (s *MongoStore) UpdateExisting(ctx context.Context, ev *model.AttendanceEvent) error {
	filter := bson.M{
		"meeting_id":       ev.MeetingID,
		"participant_id":   ev.ParticipantID,
		"event_timestamps": bson.M{"$ne": ev.EventIdentity},
	}

	timesField := "join_times"
	delta := 1
	if ev.Kind == model.KindLeave {
		timesField = "leave_times"
		delta = -1
	}

	update := bson.M{
		"$set": bson.M{
			"meeting_title":      ev.MeetingTitle,
			"meeting_start_time": ev.MeetingStartTime,
			"meeting_duration":   ev.MeetingDuration,
			"participant_name":   ev.ParticipantName,
			"participant_email":  ev.ParticipantEmail,
			"last_updated_at":    time.Now().UTC(),
		},
		"$addToSet": bson.M{
			"participant_session_ids": ev.SessionID,
			timesField:                ev.Time,
			"event_timestamps":        ev.EventIdentity,
		},
		"$inc": bson.M{"participation_count": delta},
	}

	res, err := s.coll().UpdateOne(ctx, filter, update)
	if err != nil {
		return errors.Wrap(err, "conditional update")
	}
	if res.MatchedCount == 0 {
		// record absent, or this identity was already applied
		return ErrConditionFailed
	}
	return nil
}

func (s *MongoStore) InsertNew(ctx context.Context, ev *model.AttendanceEvent) error {
	_, err := s.coll().InsertOne(ctx, seedRecord(ev, time.Now().UTC()))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// lost the race, or the update already refused this identity
			return ErrConditionFailed
		}
		return errors.Wrap(err, "conditional insert")
	}
	return nil
}

func (s *MongoStore) GetRecord(ctx context.Context, meetingID, participantID string) (*model.AttendanceRecord, error) {
	var rec model.AttendanceRecord
	err := s.coll().FindOne(ctx, bson.M{"meeting_id": meetingID, "participant_id": participantID}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrRecordNotFound.WrapMsg("no record", "meeting", meetingID, "participant", participantID)
		}
		return nil, errors.Wrap(err, "get record")
	}
	return &rec, nil
}

func (s *MongoStore) MeetingRecords(ctx context.Context, meetingID string) ([]model.AttendanceRecord, error) {
	return s.findAll(ctx, bson.M{"meeting_id": meetingID})
}

func (s *MongoStore) RecentRecords(ctx context.Context, since time.Time) ([]model.AttendanceRecord, error) {
	return s.findAll(ctx, bson.M{"last_updated_at": bson.M{"$gt": since}})
}

// findAll drains the cursor so callers never deal with continuation state.
func (s *MongoStore) findAll(ctx context.Context, filter bson.M) ([]model.AttendanceRecord, error) {
	cur, err := s.coll().Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "query records")
	}
	defer func() { _ = cur.Close(ctx) }()

	var out []model.AttendanceRecord
	for cur.Next(ctx) {
		var rec model.AttendanceRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, errors.Wrap(err, "decode record")
		}
		out = append(out, rec)
	}
	return out, errors.Wrap(cur.Err(), "iterate records")
}
