package data

import (
	"context"
	"testing"

	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trailmark/trailmark/model/destination"
	"github.com/trailmark/trailmark/model/user"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMockConnectorFinders(t *testing.T) {
	ctx := context.Background()
	mc := &MockConnector{
		CachedDestinations: []destination.Destination{
			{Id: primitive.NewObjectID(), Name: "Bali", Location: "Indonesia", Rating: 4.5},
			{Id: primitive.NewObjectID(), Name: "Jakarta", Location: "INDONESIA", Rating: 3},
			{Id: primitive.NewObjectID(), Name: "Paris", Location: "France", Rating: 4.5},
		},
	}

	t.Run("ByName", func(t *testing.T) {
		d, err := mc.FindDestinationByName(ctx, "Paris")
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, "France", d.Location)

		d, err = mc.FindDestinationByName(ctx, "paris")
		require.NoError(t, err)
		assert.Nil(t, d)
	})

	t.Run("ByLocationIgnoresCase", func(t *testing.T) {
		destinations, err := mc.FindDestinationsByLocation(ctx, "indo")
		require.NoError(t, err)
		assert.Len(t, destinations, 2)

		destinations, err = mc.FindDestinationsByLocation(ctx, "Peru")
		require.NoError(t, err)
		assert.Nil(t, destinations)
	})

	t.Run("SortedByRatingIsStable", func(t *testing.T) {
		destinations, err := mc.FindDestinationsSortedByRating(ctx)
		require.NoError(t, err)
		require.Len(t, destinations, 3)
		assert.Equal(t, "Bali", destinations[0].Name)
		assert.Equal(t, "Paris", destinations[1].Name)
		assert.Equal(t, "Jakarta", destinations[2].Name)
	})

	t.Run("MinRating", func(t *testing.T) {
		destinations, err := mc.FindDestinationsByMinRating(ctx, 4.5)
		require.NoError(t, err)
		assert.Len(t, destinations, 2)

		_, err = mc.FindDestinationsByMinRating(ctx, 5)
		assert.True(t, errors.Is(err, destination.ErrNoneAtMinRating))
	})
}

func TestMockConnectorMutations(t *testing.T) {
	ctx := context.Background()
	mc := &MockConnector{}

	created, err := mc.CreateDestination(ctx, destination.Destination{Name: "Bali", Rating: 4})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.False(t, created.Id.IsZero())
	assert.NotNil(t, created.Reviews)

	updated, err := mc.UpdateDestination(ctx, created.Id.Hex(), destination.Patch{Rating: utility.ToFloat64Ptr(5)})
	require.NoError(t, err)
	assert.Equal(t, "Bali", updated.Name)
	assert.Equal(t, 5.0, updated.Rating)

	_, err = mc.UpdateDestination(ctx, primitive.NewObjectID().Hex(), destination.Patch{})
	assert.True(t, errors.Is(err, destination.ErrNotFound))

	withReview, err := mc.AddReview(ctx, created.Id.Hex(), destination.Review{User: primitive.NewObjectID(), Text: "warm"})
	require.NoError(t, err)
	assert.Len(t, withReview.Reviews, 1)

	missing, err := mc.AddReview(ctx, "nope", destination.Review{})
	require.NoError(t, err)
	assert.Nil(t, missing)

	deleted, err := mc.DeleteDestination(ctx, created.Id.Hex())
	require.NoError(t, err)
	assert.Equal(t, created.Id, deleted.Id)
	assert.Empty(t, mc.CachedDestinations)

	_, err = mc.DeleteDestination(ctx, created.Id.Hex())
	assert.True(t, errors.Is(err, destination.ErrNotFound))
}

func TestMockConnectorReviewsWithUserDetails(t *testing.T) {
	ctx := context.Background()
	ana := user.DBUser{Id: primitive.NewObjectID(), Username: "ana", Email: "ana@example.com"}
	d := destination.Destination{
		Id: primitive.NewObjectID(),
		Reviews: []destination.Review{
			{User: ana.Id, Text: "one"},
			{User: primitive.NewObjectID(), Text: "two"},
			{User: ana.Id, Text: "three"},
			{User: ana.Id, Text: "four"},
		},
	}
	mc := &MockConnector{
		CachedDestinations: []destination.Destination{d},
		CachedUsers:        []user.DBUser{ana},
	}

	reviews, err := mc.GetReviewsWithUserDetails(ctx, d.Id.Hex())
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	require.NotNil(t, reviews[0].User)
	assert.Equal(t, "ana", reviews[0].User.Username)
	assert.Empty(t, reviews[0].User.Email)
	assert.Nil(t, reviews[1].User)
	assert.Equal(t, "three", reviews[2].Text)

	reviews, err = mc.GetReviewsWithUserDetails(ctx, primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.Nil(t, reviews)
}

func TestMockConnectorStoredError(t *testing.T) {
	ctx := context.Background()
	mc := &MockConnector{
		CachedUsers: []user.DBUser{{Id: primitive.NewObjectID(), Username: "ana"}},
		StoredError: errors.New("store unavailable"),
	}

	_, err := mc.FindAllDestinations(ctx)
	assert.Error(t, err)
	_, err = mc.CreateDestination(ctx, destination.Destination{Name: "Bali"})
	assert.Error(t, err)
	assert.Nil(t, mc.FindAllUsers(ctx))
}
