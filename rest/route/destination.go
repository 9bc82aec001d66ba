package route

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/evergreen-ci/gimlet"
	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
	"github.com/trailmark/trailmark/model/destination"
	"github.com/trailmark/trailmark/rest/data"
	"github.com/trailmark/trailmark/rest/model"
)

func buildAPIDestinations(destinations []destination.Destination) []model.APIDestination {
	out := make([]model.APIDestination, 0, len(destinations))
	for _, d := range destinations {
		apiDestination := model.APIDestination{}
		apiDestination.BuildFromService(d)
		out = append(out, apiDestination)
	}
	return out
}

////////////////////////////////////////////////////////////////////////
//
// POST /destinations

type destinationCreateHandler struct {
	destination destination.Destination
	sc          data.Connector
}

func makeCreateDestination(sc data.Connector) gimlet.RouteHandler {
	return &destinationCreateHandler{sc: sc}
}

func (h *destinationCreateHandler) Factory() gimlet.RouteHandler {
	return &destinationCreateHandler{sc: h.sc}
}

func (h *destinationCreateHandler) Parse(ctx context.Context, r *http.Request) error {
	apiDestination := model.APIDestination{}
	if err := utility.ReadJSON(r.Body, &apiDestination); err != nil {
		return errors.Wrap(err, "reading destination from JSON request body")
	}

	d, err := apiDestination.ToService()
	if err != nil {
		return errors.Wrap(err, "converting destination to service model")
	}
	h.destination = d
	return nil
}

func (h *destinationCreateHandler) Run(ctx context.Context) gimlet.Responder {
	saved, err := h.sc.CreateDestination(ctx, h.destination)
	if err != nil {
		return newEnvelopeResponse(http.StatusInternalServerError, envelope{
			"error":            err.Error(),
			"message":          nil,
			"savedDestination": nil,
		})
	}
	if saved == nil {
		return writeFailureResponse(http.StatusBadRequest, "Failed to save destination", "savedDestination")
	}

	apiDestination := model.APIDestination{}
	apiDestination.BuildFromService(*saved)
	return writeSuccessResponse(http.StatusCreated, "Destination saved successfully", "savedDestination", apiDestination)
}

////////////////////////////////////////////////////////////////////////
//
// GET /destinations

type destinationsGetHandler struct {
	sc data.Connector
}

func makeGetAllDestinations(sc data.Connector) gimlet.RouteHandler {
	return &destinationsGetHandler{sc: sc}
}

func (h *destinationsGetHandler) Factory() gimlet.RouteHandler {
	return &destinationsGetHandler{sc: h.sc}
}

func (h *destinationsGetHandler) Parse(ctx context.Context, r *http.Request) error {
	return nil
}

func (h *destinationsGetHandler) Run(ctx context.Context) gimlet.Responder {
	destinations, err := h.sc.FindAllDestinations(ctx)
	if err != nil {
		return internalErrorResponse(errors.Wrap(err, "fetching destinations"))
	}
	if len(destinations) == 0 {
		return notFoundResponse("Failed to fetch destinations")
	}

	return successResponse(http.StatusOK, "Destinations successfully fetched", "destinations", buildAPIDestinations(destinations))
}

////////////////////////////////////////////////////////////////////////
//
// GET /destinations/rating

type destinationsByRatingHandler struct {
	sc data.Connector
}

func makeGetDestinationsByRating(sc data.Connector) gimlet.RouteHandler {
	return &destinationsByRatingHandler{sc: sc}
}

func (h *destinationsByRatingHandler) Factory() gimlet.RouteHandler {
	return &destinationsByRatingHandler{sc: h.sc}
}

func (h *destinationsByRatingHandler) Parse(ctx context.Context, r *http.Request) error {
	return nil
}

func (h *destinationsByRatingHandler) Run(ctx context.Context) gimlet.Responder {
	destinations, err := h.sc.FindDestinationsSortedByRating(ctx)
	if err != nil {
		return internalErrorResponse(errors.Wrap(err, "fetching destinations"))
	}
	if len(destinations) == 0 {
		return notFoundResponse("Failed to fetch destinations")
	}

	return successResponse(http.StatusOK, "Destinations successfully fetched based on ratings", "destinations", buildAPIDestinations(destinations))
}

////////////////////////////////////////////////////////////////////////
//
// GET /destinations/filter/{min_rating}

type destinationsFilterHandler struct {
	minRating float64
	sc        data.Connector
}

func makeFilterDestinationsByRating(sc data.Connector) gimlet.RouteHandler {
	return &destinationsFilterHandler{sc: sc}
}

func (h *destinationsFilterHandler) Factory() gimlet.RouteHandler {
	return &destinationsFilterHandler{sc: h.sc}
}

// Parse does not reject a threshold that is not a number. It becomes NaN,
// which no destination is rated at or above.
func (h *destinationsFilterHandler) Parse(ctx context.Context, r *http.Request) error {
	h.minRating = parseLeadingFloat(gimlet.GetVars(r)["min_rating"])
	return nil
}

var leadingFloat = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)

// parseLeadingFloat reads the number at the start of s, ignoring leading
// space and anything after the number, so "4.5abc" is 4.5. It returns NaN
// when s does not start with a number. Values too large to represent are
// infinite.
func parseLeadingFloat(s string) float64 {
	prefix := leadingFloat.FindString(strings.TrimLeftFunc(s, unicode.IsSpace))
	if prefix == "" {
		return math.NaN()
	}
	val, err := strconv.ParseFloat(prefix, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return val
}

func (h *destinationsFilterHandler) Run(ctx context.Context) gimlet.Responder {
	destinations, err := h.sc.FindDestinationsByMinRating(ctx, h.minRating)
	if errors.Is(err, destination.ErrNoneAtMinRating) {
		return notFoundResponse("No destinations found with the specified rating")
	}
	if err != nil {
		return internalErrorResponse(errors.Wrap(err, "filtering destinations by rating"))
	}
	if len(destinations) == 0 {
		return notFoundResponse("No destinations found with the specified rating")
	}

	msg := fmt.Sprintf("Destinations with a rating of %v or higher fetched successfully", h.minRating)
	return successResponse(http.StatusOK, msg, "filteredDestinations", buildAPIDestinations(destinations))
}

////////////////////////////////////////////////////////////////////////
//
// GET /destinations/location/{location}

type destinationsByLocationHandler struct {
	location string
	sc       data.Connector
}

func makeGetDestinationsByLocation(sc data.Connector) gimlet.RouteHandler {
	return &destinationsByLocationHandler{sc: sc}
}

func (h *destinationsByLocationHandler) Factory() gimlet.RouteHandler {
	return &destinationsByLocationHandler{sc: h.sc}
}

func (h *destinationsByLocationHandler) Parse(ctx context.Context, r *http.Request) error {
	location, err := url.PathUnescape(gimlet.GetVars(r)["location"])
	if err != nil {
		return errors.Wrap(err, "unescaping location")
	}
	h.location = location
	return nil
}

func (h *destinationsByLocationHandler) Run(ctx context.Context) gimlet.Responder {
	destinations, err := h.sc.FindDestinationsByLocation(ctx, h.location)
	if err != nil {
		return internalErrorResponse(errors.Wrapf(err, "fetching destinations in location '%s'", h.location))
	}
	if len(destinations) == 0 {
		return notFoundResponse("Failed to fetch destinations")
	}

	return successResponse(http.StatusOK, "Destination by location fetched successfully", "destinations", buildAPIDestinations(destinations))
}

////////////////////////////////////////////////////////////////////////
//
// POST /destinations/{destination_id}

type destinationUpdateHandler struct {
	destinationId string
	patch         destination.Patch
	sc            data.Connector
}

func makeUpdateDestination(sc data.Connector) gimlet.RouteHandler {
	return &destinationUpdateHandler{sc: sc}
}

func (h *destinationUpdateHandler) Factory() gimlet.RouteHandler {
	return &destinationUpdateHandler{sc: h.sc}
}

func (h *destinationUpdateHandler) Parse(ctx context.Context, r *http.Request) error {
	h.destinationId = gimlet.GetVars(r)["destination_id"]

	apiDestination := model.APIDestination{}
	if err := utility.ReadJSON(r.Body, &apiDestination); err != nil {
		return errors.Wrap(err, "reading destination update from JSON request body")
	}
	h.patch = apiDestination.ToPatch()
	return nil
}

func (h *destinationUpdateHandler) Run(ctx context.Context) gimlet.Responder {
	updated, err := h.sc.UpdateDestination(ctx, h.destinationId, h.patch)
	if errors.Is(err, destination.ErrNotFound) {
		return writeFailureResponse(http.StatusBadRequest, "Failed to update destination", "updatedDestination")
	}
	if err != nil {
		return internalErrorResponse(errors.Wrapf(err, "updating destination '%s'", h.destinationId))
	}
	if updated == nil {
		return writeFailureResponse(http.StatusBadRequest, "Failed to update destination", "updatedDestination")
	}

	apiDestination := model.APIDestination{}
	apiDestination.BuildFromService(*updated)
	return writeSuccessResponse(http.StatusCreated, "Destination updated successfully", "updatedDestination", apiDestination)
}

////////////////////////////////////////////////////////////////////////
//
// GET /destinations/{name}

type destinationByNameHandler struct {
	name string
	sc   data.Connector
}

func makeGetDestinationByName(sc data.Connector) gimlet.RouteHandler {
	return &destinationByNameHandler{sc: sc}
}

func (h *destinationByNameHandler) Factory() gimlet.RouteHandler {
	return &destinationByNameHandler{sc: h.sc}
}

func (h *destinationByNameHandler) Parse(ctx context.Context, r *http.Request) error {
	name, err := url.PathUnescape(gimlet.GetVars(r)["name"])
	if err != nil {
		return errors.Wrap(err, "unescaping destination name")
	}
	h.name = name
	return nil
}

func (h *destinationByNameHandler) Run(ctx context.Context) gimlet.Responder {
	d, err := h.sc.FindDestinationByName(ctx, h.name)
	if err != nil {
		return internalErrorResponse(errors.Wrapf(err, "finding destination '%s'", h.name))
	}
	if d == nil {
		return notFoundResponse("Requested Destination not found")
	}

	apiDestination := model.APIDestination{}
	apiDestination.BuildFromService(*d)
	return successResponse(http.StatusOK, "Requested Destination fetched successfully", "requestedDestination", apiDestination)
}

////////////////////////////////////////////////////////////////////////
//
// DELETE /destinations/{destination_id}

type destinationDeleteHandler struct {
	destinationId string
	sc            data.Connector
}

func makeDeleteDestination(sc data.Connector) gimlet.RouteHandler {
	return &destinationDeleteHandler{sc: sc}
}

func (h *destinationDeleteHandler) Factory() gimlet.RouteHandler {
	return &destinationDeleteHandler{sc: h.sc}
}

func (h *destinationDeleteHandler) Parse(ctx context.Context, r *http.Request) error {
	h.destinationId = gimlet.GetVars(r)["destination_id"]
	return nil
}

func (h *destinationDeleteHandler) Run(ctx context.Context) gimlet.Responder {
	deleted, err := h.sc.DeleteDestination(ctx, h.destinationId)
	if errors.Is(err, destination.ErrNotFound) || (err == nil && deleted == nil) {
		return notFoundResponse("Destination not found")
	}
	if err != nil {
		return internalErrorResponse(errors.Wrapf(err, "deleting destination '%s'", h.destinationId))
	}

	apiDestination := model.APIDestination{}
	apiDestination.BuildFromService(*deleted)
	return successResponse(http.StatusOK, "Destination deleted successfully", "deletedDestination", apiDestination)
}
