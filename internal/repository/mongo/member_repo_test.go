package mongo

import (
	"alcyxob/gym-membership/internal/domain"
	"alcyxob/gym-membership/internal/repository"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoMemberRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "gym.members"

	mt.Run("get by id decodes embedded plan", func(mt *mtest.T) {
		repo := NewMongoMemberRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Lucía"},
			{Key: "plan", Value: bson.D{
				{Key: "targetSessions", Value: 8},
				{Key: "remainingSessions", Value: 3},
				{Key: "completed", Value: false},
			}},
			{Key: "attendance", Value: bson.A{
				bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "activity", Value: "strength"}, {Key: "present", Value: true}},
			}},
		}))

		m, err := repo.GetByID(context.Background(), id)
		require.NoError(mt, err)
		assert.Equal(mt, "Lucía", m.Name)
		require.NotNil(mt, m.Plan)
		assert.Equal(mt, 3, m.Plan.RemainingSessions)
		require.Len(mt, m.Attendance, 1)
		assert.Equal(mt, domain.ActivityStrength, m.Attendance[0].Activity)
	})

	mt.Run("get by id maps missing documents", func(mt *mtest.T) {
		repo := NewMongoMemberRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("save of unknown member", func(mt *mtest.T) {
		repo := NewMongoMemberRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.Save(context.Background(), &domain.Member{ID: primitive.NewObjectID(), Name: "x"})
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("save requires id", func(mt *mtest.T) {
		repo := NewMongoMemberRepository(mt.DB)
		err := repo.Save(context.Background(), &domain.Member{Name: "x"})
		assert.Error(mt, err)
	})

	mt.Run("create with duplicate email", func(mt *mtest.T) {
		repo := NewMongoMemberRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		_, err := repo.Create(context.Background(), &domain.Member{Name: "Ana", Email: "ana@example.com"})
		assert.ErrorIs(mt, err, repository.ErrDuplicateKey)
	})

	mt.Run("create initialises embedded collections", func(mt *mtest.T) {
		repo := NewMongoMemberRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		m := &domain.Member{Name: "Ana"}
		id, err := repo.Create(context.Background(), m)
		require.NoError(mt, err)
		assert.Equal(mt, m.ID, id)
		assert.NotNil(mt, m.Attendance)
		assert.NotNil(mt, m.PlanHistory)
		assert.False(mt, m.CreatedAt.IsZero())
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := NewMongoMemberRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		require.NoError(mt, repo.Delete(context.Background(), primitive.NewObjectID()))

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		assert.ErrorIs(mt, repo.Delete(context.Background(), primitive.NewObjectID()), repository.ErrNotFound)
	})
}
