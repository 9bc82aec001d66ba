package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trailmark/trailmark/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const testNamespace = "trailmark_mock." + Collection

func TestFindAll(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("ReturnsEveryUser", func(mt *mtest.T) {
		mock.SetGlobalEnvironment(mt, mt.Client)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch,
			bson.D{{Key: IdKey, Value: primitive.NewObjectID()}, {Key: UsernameKey, Value: "ana"}, {Key: EmailKey, Value: "ana@example.com"}},
			bson.D{{Key: IdKey, Value: primitive.NewObjectID()}, {Key: UsernameKey, Value: "ben"}},
		))

		users := FindAll(context.Background())
		require.Len(mt, users, 2)
		assert.Equal(mt, "ana", users[0].Username)
		assert.Equal(mt, "ana@example.com", users[0].Email)
		assert.Equal(mt, "ben", users[1].Username)
	})

	mt.Run("NoUsersIsEmpty", func(mt *mtest.T) {
		mock.SetGlobalEnvironment(mt, mt.Client)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch))

		users := FindAll(context.Background())
		assert.NotNil(mt, users)
		assert.Empty(mt, users)
	})

	mt.Run("StoreErrorIsSwallowed", func(mt *mtest.T) {
		mock.SetGlobalEnvironment(mt, mt.Client)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized",
		}))

		assert.Nil(mt, FindAll(context.Background()))
	})
}

func TestFindByIds(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("NoIdsSkipsQuery", func(mt *mtest.T) {
		mock.SetGlobalEnvironment(mt, mt.Client)

		users, err := FindByIds(context.Background(), nil)
		require.NoError(mt, err)
		assert.Empty(mt, users)
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("ProjectsUsername", func(mt *mtest.T) {
		mock.SetGlobalEnvironment(mt, mt.Client)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch,
			bson.D{{Key: IdKey, Value: id}, {Key: UsernameKey, Value: "ana"}},
		))

		users, err := FindByIds(context.Background(), []primitive.ObjectID{id, primitive.NewObjectID()})
		require.NoError(mt, err)
		require.Len(mt, users, 1)
		assert.Equal(mt, id, users[0].Id)
		assert.Equal(mt, "ana", users[0].Username)
		assert.Empty(mt, users[0].Email)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "find", evt.CommandName)
		projection := evt.Command.Lookup("projection")
		_, hasUsername := projection.Document().Lookup(UsernameKey).Int32OK()
		assert.True(mt, hasUsername)
		_, hasEmail := projection.Document().Lookup(EmailKey).Int32OK()
		assert.False(mt, hasEmail)
	})

	mt.Run("StoreErrorIsReturned", func(mt *mtest.T) {
		mock.SetGlobalEnvironment(mt, mt.Client)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "bad query",
		}))

		users, err := FindByIds(context.Background(), []primitive.ObjectID{primitive.NewObjectID()})
		assert.Error(mt, err)
		assert.Nil(mt, users)
	})
}

func TestInsertAssignsId(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Insert", func(mt *mtest.T) {
		mock.SetGlobalEnvironment(mt, mt.Client)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u := &DBUser{Username: "ana"}
		require.NoError(mt, u.Insert(context.Background()))
		assert.False(mt, u.Id.IsZero())
	})
}
