package data

import (
	"context"

	"github.com/trailmark/trailmark/model/destination"
	"github.com/trailmark/trailmark/model/user"
)

// Connector is the interface through which routes reach stored data.
type Connector interface {
	DestinationConnector
	UserConnector
}

// DestinationConnector provides access to destinations and their reviews.
// Lookups that find nothing return nil without an error, except where
// noted on the model functions they wrap.
type DestinationConnector interface {
	CreateDestination(context.Context, destination.Destination) (*destination.Destination, error)
	FindDestinationByName(context.Context, string) (*destination.Destination, error)
	FindAllDestinations(context.Context) ([]destination.Destination, error)
	FindDestinationsByLocation(context.Context, string) ([]destination.Destination, error)
	FindDestinationsSortedByRating(context.Context) ([]destination.Destination, error)
	// FindDestinationsByMinRating returns destination.ErrNoneAtMinRating
	// when nothing is rated high enough.
	FindDestinationsByMinRating(context.Context, float64) ([]destination.Destination, error)
	// UpdateDestination and DeleteDestination return destination.ErrNotFound
	// for an unknown id.
	UpdateDestination(context.Context, string, destination.Patch) (*destination.Destination, error)
	DeleteDestination(context.Context, string) (*destination.Destination, error)
	AddReview(context.Context, string, destination.Review) (*destination.Destination, error)
	GetReviewsWithUserDetails(context.Context, string) ([]destination.ReviewWithAuthor, error)
}

// UserConnector provides read access to users.
type UserConnector interface {
	// FindAllUsers never fails; read errors are reported as no users.
	FindAllUsers(context.Context) []user.DBUser
}

// DBConnector is a struct that implements all of the methods which
// connect to the model layer. These methods abstract the link between the
// model and the API layers, allowing for changes in the storage
// architecture without forcing changes to the API.
type DBConnector struct {
	DBDestinationConnector
	DBUserConnector
}

var (
	_ Connector = &DBConnector{}
	_ Connector = &MockConnector{}
)
