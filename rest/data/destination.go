package data

import (
	"context"

	"github.com/trailmark/trailmark/model/destination"
	"go.opentelemetry.io/otel/attribute"
)

// DBDestinationConnector is a struct that implements the destination related
// methods of the Connector through interactions with the backing database.
type DBDestinationConnector struct{}

func (dc *DBDestinationConnector) CreateDestination(ctx context.Context, d destination.Destination) (*destination.Destination, error) {
	ctx, span := startSpan(ctx, "CreateDestination", attribute.String(destinationNameAttribute, d.Name))
	saved, err := destination.Create(ctx, d)
	if saved != nil {
		span.SetAttributes(attribute.String(destinationIdAttribute, saved.Id.Hex()))
	}
	endSpan(span, err)
	return saved, err
}

func (dc *DBDestinationConnector) FindDestinationByName(ctx context.Context, name string) (*destination.Destination, error) {
	ctx, span := startSpan(ctx, "FindDestinationByName", attribute.String(destinationNameAttribute, name))
	d, err := destination.FindByName(ctx, name)
	endSpan(span, err)
	return d, err
}

func (dc *DBDestinationConnector) FindAllDestinations(ctx context.Context) ([]destination.Destination, error) {
	ctx, span := startSpan(ctx, "FindAllDestinations")
	destinations, err := destination.FindAll(ctx)
	span.SetAttributes(attribute.Int(resultCountAttribute, len(destinations)))
	endSpan(span, err)
	return destinations, err
}

func (dc *DBDestinationConnector) FindDestinationsByLocation(ctx context.Context, location string) ([]destination.Destination, error) {
	ctx, span := startSpan(ctx, "FindDestinationsByLocation", attribute.String(locationAttribute, location))
	destinations, err := destination.FindByLocation(ctx, location)
	span.SetAttributes(attribute.Int(resultCountAttribute, len(destinations)))
	endSpan(span, err)
	return destinations, err
}

func (dc *DBDestinationConnector) FindDestinationsSortedByRating(ctx context.Context) ([]destination.Destination, error) {
	ctx, span := startSpan(ctx, "FindDestinationsSortedByRating")
	destinations, err := destination.FindAllSortedByRatingDesc(ctx)
	span.SetAttributes(attribute.Int(resultCountAttribute, len(destinations)))
	endSpan(span, err)
	return destinations, err
}

func (dc *DBDestinationConnector) FindDestinationsByMinRating(ctx context.Context, threshold float64) ([]destination.Destination, error) {
	ctx, span := startSpan(ctx, "FindDestinationsByMinRating", attribute.Float64(minRatingAttribute, threshold))
	destinations, err := destination.FindByMinRating(ctx, threshold)
	span.SetAttributes(attribute.Int(resultCountAttribute, len(destinations)))
	endSpan(span, err)
	return destinations, err
}

func (dc *DBDestinationConnector) UpdateDestination(ctx context.Context, id string, patch destination.Patch) (*destination.Destination, error) {
	ctx, span := startSpan(ctx, "UpdateDestination", attribute.String(destinationIdAttribute, id))
	d, err := destination.UpdateById(ctx, id, patch)
	endSpan(span, err)
	return d, err
}

func (dc *DBDestinationConnector) DeleteDestination(ctx context.Context, id string) (*destination.Destination, error) {
	ctx, span := startSpan(ctx, "DeleteDestination", attribute.String(destinationIdAttribute, id))
	d, err := destination.DeleteById(ctx, id)
	endSpan(span, err)
	return d, err
}

func (dc *DBDestinationConnector) AddReview(ctx context.Context, id string, review destination.Review) (*destination.Destination, error) {
	ctx, span := startSpan(ctx, "AddReview", attribute.String(destinationIdAttribute, id))
	d, err := destination.AppendReview(ctx, id, review)
	endSpan(span, err)
	return d, err
}

func (dc *DBDestinationConnector) GetReviewsWithUserDetails(ctx context.Context, id string) ([]destination.ReviewWithAuthor, error) {
	ctx, span := startSpan(ctx, "GetReviewsWithUserDetails", attribute.String(destinationIdAttribute, id))
	reviews, err := destination.GetReviewsWithUserDetails(ctx, id)
	span.SetAttributes(attribute.Int(resultCountAttribute, len(reviews)))
	endSpan(span, err)
	return reviews, err
}
