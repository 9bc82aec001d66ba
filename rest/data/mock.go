package data

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/trailmark/trailmark"
	"github.com/trailmark/trailmark/model/destination"
	"github.com/trailmark/trailmark/model/user"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockConnector implements the Connector in memory for route tests. A
// non-nil StoredError is returned by every operation that can fail.
type MockConnector struct {
	CachedDestinations []destination.Destination
	CachedUsers        []user.DBUser
	StoredError        error

	mu sync.RWMutex
}

func (mc *MockConnector) CreateDestination(_ context.Context, d destination.Destination) (*destination.Destination, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.StoredError != nil {
		return nil, mc.StoredError
	}
	if d.Id.IsZero() {
		d.Id = primitive.NewObjectID()
	}
	if d.Reviews == nil {
		d.Reviews = []destination.Review{}
	}
	mc.CachedDestinations = append(mc.CachedDestinations, d)
	return copyDestination(d), nil
}

func (mc *MockConnector) FindDestinationByName(_ context.Context, name string) (*destination.Destination, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if mc.StoredError != nil {
		return nil, mc.StoredError
	}
	for _, d := range mc.CachedDestinations {
		if d.Name == name {
			return copyDestination(d), nil
		}
	}
	return nil, nil
}

func (mc *MockConnector) FindAllDestinations(_ context.Context) ([]destination.Destination, error) {
	return mc.filter(func(destination.Destination) bool { return true })
}

func (mc *MockConnector) FindDestinationsByLocation(_ context.Context, location string) ([]destination.Destination, error) {
	location = strings.ToLower(location)
	return mc.filter(func(d destination.Destination) bool {
		return strings.Contains(strings.ToLower(d.Location), location)
	})
}

func (mc *MockConnector) FindDestinationsSortedByRating(_ context.Context) ([]destination.Destination, error) {
	destinations, err := mc.filter(func(destination.Destination) bool { return true })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(destinations, func(i, j int) bool {
		return destinations[i].Rating > destinations[j].Rating
	})
	return destinations, nil
}

func (mc *MockConnector) FindDestinationsByMinRating(_ context.Context, threshold float64) ([]destination.Destination, error) {
	destinations, err := mc.filter(func(d destination.Destination) bool {
		return !math.IsNaN(threshold) && d.Rating >= threshold
	})
	if err != nil {
		return nil, err
	}
	if len(destinations) == 0 {
		return nil, errors.WithStack(destination.ErrNoneAtMinRating)
	}
	return destinations, nil
}

func (mc *MockConnector) UpdateDestination(_ context.Context, id string, patch destination.Patch) (*destination.Destination, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.StoredError != nil {
		return nil, mc.StoredError
	}
	idx := mc.indexOf(id)
	if idx < 0 {
		return nil, errors.WithStack(destination.ErrNotFound)
	}

	d := &mc.CachedDestinations[idx]
	if patch.Name != nil {
		d.Name = *patch.Name
	}
	if patch.Location != nil {
		d.Location = *patch.Location
	}
	if patch.Rating != nil {
		d.Rating = *patch.Rating
	}
	return copyDestination(*d), nil
}

func (mc *MockConnector) DeleteDestination(_ context.Context, id string) (*destination.Destination, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.StoredError != nil {
		return nil, mc.StoredError
	}
	idx := mc.indexOf(id)
	if idx < 0 {
		return nil, errors.WithStack(destination.ErrNotFound)
	}

	deleted := mc.CachedDestinations[idx]
	mc.CachedDestinations = append(mc.CachedDestinations[:idx], mc.CachedDestinations[idx+1:]...)
	return &deleted, nil
}

func (mc *MockConnector) AddReview(_ context.Context, id string, review destination.Review) (*destination.Destination, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.StoredError != nil {
		return nil, mc.StoredError
	}
	idx := mc.indexOf(id)
	if idx < 0 {
		return nil, nil
	}

	d := &mc.CachedDestinations[idx]
	d.Reviews = append(d.Reviews, review)
	return copyDestination(*d), nil
}

func (mc *MockConnector) GetReviewsWithUserDetails(_ context.Context, id string) ([]destination.ReviewWithAuthor, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if mc.StoredError != nil {
		return nil, mc.StoredError
	}
	idx := mc.indexOf(id)
	if idx < 0 {
		return nil, nil
	}

	reviews := mc.CachedDestinations[idx].Reviews
	if len(reviews) > trailmark.ReviewsPreviewLimit {
		reviews = reviews[:trailmark.ReviewsPreviewLimit]
	}

	out := make([]destination.ReviewWithAuthor, 0, len(reviews))
	for _, r := range reviews {
		withAuthor := destination.ReviewWithAuthor{Text: r.Text, Rating: r.Rating}
		for _, u := range mc.CachedUsers {
			if u.Id == r.User {
				withAuthor.User = &user.DBUser{Id: u.Id, Username: u.Username}
				break
			}
		}
		out = append(out, withAuthor)
	}
	return out, nil
}

// FindAllUsers returns the cached users. The stored error is reported as no
// users, as the database implementation does.
func (mc *MockConnector) FindAllUsers(_ context.Context) []user.DBUser {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if mc.StoredError != nil {
		return nil
	}
	return append([]user.DBUser{}, mc.CachedUsers...)
}

func (mc *MockConnector) filter(match func(destination.Destination) bool) ([]destination.Destination, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if mc.StoredError != nil {
		return nil, mc.StoredError
	}
	var out []destination.Destination
	for _, d := range mc.CachedDestinations {
		if match(d) {
			out = append(out, *copyDestination(d))
		}
	}
	return out, nil
}

func (mc *MockConnector) indexOf(id string) int {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return -1
	}
	for i, d := range mc.CachedDestinations {
		if d.Id == oid {
			return i
		}
	}
	return -1
}

func copyDestination(d destination.Destination) *destination.Destination {
	d.Reviews = append([]destination.Review{}, d.Reviews...)
	return &d
}
