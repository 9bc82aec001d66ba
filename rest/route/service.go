package route

import (
	"github.com/evergreen-ci/gimlet"
	"github.com/trailmark/trailmark/rest/data"
)

// AttachHandler registers the destination and user routes on the app.
// Routes are matched in the order they are added, so the literal
// /destinations segments must come before /destinations/{name}.
func AttachHandler(app *gimlet.APIApp, sc data.Connector) {
	app.AddRoute("/destinations").Post().RouteHandler(withEnvelopeErrors(makeCreateDestination(sc)))
	app.AddRoute("/destinations").Get().RouteHandler(withEnvelopeErrors(makeGetAllDestinations(sc)))
	app.AddRoute("/destinations/rating").Get().RouteHandler(withEnvelopeErrors(makeGetDestinationsByRating(sc)))
	app.AddRoute("/destinations/filter/{min_rating}").Get().RouteHandler(withEnvelopeErrors(makeFilterDestinationsByRating(sc)))
	app.AddRoute("/destinations/location/{location}").Get().RouteHandler(withEnvelopeErrors(makeGetDestinationsByLocation(sc)))
	app.AddRoute("/destinations/{destination_id}").Post().RouteHandler(withEnvelopeErrors(makeUpdateDestination(sc)))
	app.AddRoute("/destinations/{destination_id}/reviews").Post().RouteHandler(withEnvelopeErrors(makeAddReview(sc)))
	app.AddRoute("/destinations/{name}").Get().RouteHandler(withEnvelopeErrors(makeGetDestinationByName(sc)))
	app.AddRoute("/destinations/{destination_id}/reviews").Get().RouteHandler(withEnvelopeErrors(makeGetReviews(sc)))
	app.AddRoute("/destinations/{destination_id}").Delete().RouteHandler(withEnvelopeErrors(makeDeleteDestination(sc)))

	app.AddRoute("/users").Get().RouteHandler(withEnvelopeErrors(makeGetAllUsers(sc)))
}
