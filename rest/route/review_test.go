package route

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/evergreen-ci/gimlet"
	"github.com/evergreen-ci/utility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trailmark/trailmark/model/destination"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *DestinationRouteSuite) TestAddReview() {
	path := "/destinations/" + s.bali.Id.Hex() + "/reviews"
	code, body := s.do(http.MethodPost, path, map[string]interface{}{
		"userId":     s.ana.Id.Hex(),
		"reviewText": "Lovely beaches",
		"rating":     5,
	})
	s.Equal(http.StatusCreated, code)
	s.Equal("Review added successfully to destination", body["message"])

	updated := body["updatedDestination"].(map[string]interface{})
	s.Equal(4.5, updated["rating"])
	reviews := updated["reviews"].([]interface{})
	s.Require().Len(reviews, 1)
	review := reviews[0].(map[string]interface{})
	s.Equal(s.ana.Id.Hex(), review["user"])
	s.Equal("Lovely beaches", review["text"])

	code, body = s.do(http.MethodPost, "/destinations/"+primitive.NewObjectID().Hex()+"/reviews", map[string]interface{}{
		"userId":     s.ana.Id.Hex(),
		"reviewText": "Nowhere",
	})
	s.Equal(http.StatusNotFound, code)
	s.Equal("Destination or user not found", body["error"])

	code, body = s.do(http.MethodPost, path, map[string]interface{}{
		"userId":     "someone",
		"reviewText": "Who am I",
	})
	s.Equal(http.StatusBadRequest, code)
	s.Contains(body["error"], "invalid user id")
	s.Len(s.sc.CachedDestinations[0].Reviews, 1)
}

func (s *DestinationRouteSuite) TestGetReviews() {
	path := "/destinations/" + s.bali.Id.Hex() + "/reviews"
	code, body := s.do(http.MethodGet, path, nil)
	s.Equal(http.StatusNotFound, code)
	s.Equal("No reviews found for the specified destination", body["error"])

	ghost := primitive.NewObjectID()
	s.sc.CachedDestinations[0].Reviews = []destination.Review{
		{User: s.ana.Id, Text: "one", Rating: utility.ToFloat64Ptr(4)},
		{User: ghost, Text: "two"},
		{User: s.ana.Id, Text: "three"},
		{User: s.ana.Id, Text: "four"},
	}

	code, body = s.do(http.MethodGet, path, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Equal("Reviews for destination "+s.bali.Id.Hex()+" fetched successfully", body["message"])

	reviews := body["reviews"].([]interface{})
	s.Require().Len(reviews, 3)
	first := reviews[0].(map[string]interface{})
	s.Equal(map[string]interface{}{"username": "ana"}, first["user"])
	s.Equal(4.0, first["rating"])
	second := reviews[1].(map[string]interface{})
	s.Nil(second["user"])
	s.NotContains(second, "rating")
	s.Equal("three", reviews[2].(map[string]interface{})["text"])

	code, _ = s.do(http.MethodGet, "/destinations/not-an-id/reviews", nil)
	s.Equal(http.StatusNotFound, code)
}

func TestAddReviewParse(t *testing.T) {
	h := makeAddReview(nil).Factory().(*reviewAddHandler)
	destinationId := primitive.NewObjectID().Hex()
	userId := primitive.NewObjectID()

	body, err := json.Marshal(map[string]interface{}{"userId": userId.Hex(), "reviewText": "quiet"})
	require.NoError(t, err)
	r, err := http.NewRequest(http.MethodPost, "/destinations/"+destinationId+"/reviews", bytes.NewBuffer(body))
	require.NoError(t, err)
	r = gimlet.SetURLVars(r, map[string]string{"destination_id": destinationId})

	require.NoError(t, h.Parse(context.Background(), r))
	assert.Equal(t, destinationId, h.destinationId)
	assert.Equal(t, userId, h.review.User)
	assert.Equal(t, "quiet", h.review.Text)
	assert.Nil(t, h.review.Rating)

	r, err = http.NewRequest(http.MethodPost, "/destinations/"+destinationId+"/reviews", bytes.NewBufferString(`{"userId": "someone"}`))
	require.NoError(t, err)
	assert.Error(t, h.Parse(context.Background(), r))
}
