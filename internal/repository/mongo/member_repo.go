// internal/repository/mongo/member_repo.go
package mongo

import (
	"alcyxob/gym-membership/internal/domain"
	"alcyxob/gym-membership/internal/repository"
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const memberCollectionName = "members"

// mongoMemberRepository implements repository.MemberRepository.
// Attendance, the active plan and the plan history are embedded in the member document.
type mongoMemberRepository struct {
	collection *mongo.Collection
}

// NewMongoMemberRepository creates a new Member repository.
func NewMongoMemberRepository(db *mongo.Database) repository.MemberRepository {
	return &mongoMemberRepository{
		collection: db.Collection(memberCollectionName),
	}
}

// Create inserts a new member.
func (r *mongoMemberRepository) Create(ctx context.Context, member *domain.Member) (primitive.ObjectID, error) {
	if member.Name == "" {
		return primitive.NilObjectID, errors.New("member requires a name")
	}
	member.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	member.CreatedAt = now
	member.UpdatedAt = now
	// Store empty arrays rather than null so $push-style readers and JSON clients see [].
	if member.Attendance == nil {
		member.Attendance = []domain.AttendanceRecord{}
	}
	if member.PlanHistory == nil {
		member.PlanHistory = []domain.PlanHistoryEntry{}
	}

	result, err := r.collection.InsertOne(ctx, member)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted member ID")
	}
	return insertedID, nil
}

// GetByID retrieves the whole member aggregate.
func (r *mongoMemberRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Member, error) {
	var member domain.Member
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// List retrieves members sorted by name.
func (r *mongoMemberRepository) List(ctx context.Context, f repository.MemberFilter) ([]domain.Member, error) {
	filter := bson.M{}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"email": pattern},
		}
	}
	if f.WithPlanOnly {
		filter["plan"] = bson.M{"$type": "object"}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if f.Limit > 0 {
		findOptions.SetLimit(f.Limit)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	members := []domain.Member{}
	if err = cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// Save replaces the stored document with the in-memory aggregate.
// Concurrent writers to the same member are last-write-wins.
func (r *mongoMemberRepository) Save(ctx context.Context, member *domain.Member) error {
	if member.ID == primitive.NilObjectID {
		return errors.New("member ID is required for save")
	}
	member.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": member.ID}, member)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateKey
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the member together with everything embedded in it.
func (r *mongoMemberRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureMemberIndexes creates necessary indexes. Call during startup.
func EnsureMemberIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Email is optional, but when present it must identify one member.
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(
				bson.M{"email": bson.M{"$type": "string"}},
			),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index(),
		},
		{
			// Listing of members close to finishing their plan
			Keys:    bson.D{{Key: "plan.remainingSessions", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		slog.Warn("index_creation_failed", "collection", collection.Name(), "error", err)
	}
	return err
}
