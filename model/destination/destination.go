package destination

import (
	"github.com/pkg/errors"
	"github.com/trailmark/trailmark/model/user"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned by updates and deletes of an id that matches
	// no destination.
	ErrNotFound = errors.New("destination not found")
	// ErrNoneAtMinRating is returned when no destination is rated at or
	// above the requested minimum.
	ErrNoneAtMinRating = errors.New("no travel destinations found at or above the minimum rating")
)

// Destination is a travel destination together with the reviews left for
// it.
type Destination struct {
	Id       primitive.ObjectID `bson:"_id"`
	Name     string             `bson:"name"`
	Location string             `bson:"location"`
	Rating   float64            `bson:"rating"`
	Reviews  []Review           `bson:"reviews"`
}

// Review is embedded in its destination. User refers to a user document
// that is only looked up when reviews are listed with their authors.
type Review struct {
	User   primitive.ObjectID `bson:"user"`
	Text   string             `bson:"text"`
	Rating *float64           `bson:"rating,omitempty"`
}

// ReviewWithAuthor is a review whose author has been resolved. User is nil
// when the referenced user no longer exists.
type ReviewWithAuthor struct {
	User   *user.DBUser
	Text   string
	Rating *float64
}

// Patch holds the fields to replace on an existing destination. Nil fields
// are left unchanged.
type Patch struct {
	Name     *string
	Location *string
	Rating   *float64
}

// IsEmpty reports whether the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Location == nil && p.Rating == nil
}

func (p Patch) setDoc() bson.M {
	set := bson.M{}
	if p.Name != nil {
		set[NameKey] = *p.Name
	}
	if p.Location != nil {
		set[LocationKey] = *p.Location
	}
	if p.Rating != nil {
		set[RatingKey] = *p.Rating
	}
	return set
}
