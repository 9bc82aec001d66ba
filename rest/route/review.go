package route

import (
	"context"
	"fmt"
	"net/http"

	"github.com/evergreen-ci/gimlet"
	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
	"github.com/trailmark/trailmark/model/destination"
	"github.com/trailmark/trailmark/rest/data"
	"github.com/trailmark/trailmark/rest/model"
)

////////////////////////////////////////////////////////////////////////
//
// POST /destinations/{destination_id}/reviews

type reviewAddHandler struct {
	destinationId string
	review        destination.Review
	sc            data.Connector
}

func makeAddReview(sc data.Connector) gimlet.RouteHandler {
	return &reviewAddHandler{sc: sc}
}

func (h *reviewAddHandler) Factory() gimlet.RouteHandler {
	return &reviewAddHandler{sc: h.sc}
}

func (h *reviewAddHandler) Parse(ctx context.Context, r *http.Request) error {
	h.destinationId = gimlet.GetVars(r)["destination_id"]

	submission := model.APIReviewSubmission{}
	if err := utility.ReadJSON(r.Body, &submission); err != nil {
		return errors.Wrap(err, "reading review from JSON request body")
	}
	review, err := submission.ToService()
	if err != nil {
		return errors.Wrap(err, "invalid review")
	}
	h.review = review
	return nil
}

func (h *reviewAddHandler) Run(ctx context.Context) gimlet.Responder {
	updated, err := h.sc.AddReview(ctx, h.destinationId, h.review)
	if err != nil {
		return internalErrorResponse(errors.Wrapf(err, "adding review to destination '%s'", h.destinationId))
	}
	if updated == nil {
		return notFoundResponse("Destination or user not found")
	}

	apiDestination := model.APIDestination{}
	apiDestination.BuildFromService(*updated)
	return successResponse(http.StatusCreated, "Review added successfully to destination", "updatedDestination", apiDestination)
}

////////////////////////////////////////////////////////////////////////
//
// GET /destinations/{destination_id}/reviews

type reviewsGetHandler struct {
	destinationId string
	sc            data.Connector
}

func makeGetReviews(sc data.Connector) gimlet.RouteHandler {
	return &reviewsGetHandler{sc: sc}
}

func (h *reviewsGetHandler) Factory() gimlet.RouteHandler {
	return &reviewsGetHandler{sc: h.sc}
}

func (h *reviewsGetHandler) Parse(ctx context.Context, r *http.Request) error {
	h.destinationId = gimlet.GetVars(r)["destination_id"]
	return nil
}

func (h *reviewsGetHandler) Run(ctx context.Context) gimlet.Responder {
	reviews, err := h.sc.GetReviewsWithUserDetails(ctx, h.destinationId)
	if err != nil {
		return internalErrorResponse(errors.Wrapf(err, "getting reviews for destination '%s'", h.destinationId))
	}
	// An unknown destination and one without reviews look the same here.
	if len(reviews) == 0 {
		return notFoundResponse("No reviews found for the specified destination")
	}

	apiReviews := make([]model.APIReviewWithAuthor, 0, len(reviews))
	for _, r := range reviews {
		apiReview := model.APIReviewWithAuthor{}
		apiReview.BuildFromService(r)
		apiReviews = append(apiReviews, apiReview)
	}

	msg := fmt.Sprintf("Reviews for destination %s fetched successfully", h.destinationId)
	return successResponse(http.StatusOK, msg, "reviews", apiReviews)
}
