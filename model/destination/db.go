package destination

import (
	"context"
	"math"
	"regexp"

	"github.com/mongodb/anser/bsonutil"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/trailmark/trailmark"
	"github.com/trailmark/trailmark/db"
	"github.com/trailmark/trailmark/model/user"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const Collection = trailmark.DestinationsCollection

var (
	IdKey       = bsonutil.MustHaveTag(Destination{}, "Id")
	NameKey     = bsonutil.MustHaveTag(Destination{}, "Name")
	LocationKey = bsonutil.MustHaveTag(Destination{}, "Location")
	RatingKey   = bsonutil.MustHaveTag(Destination{}, "Rating")
	ReviewsKey  = bsonutil.MustHaveTag(Destination{}, "Reviews")

	ReviewUserKey   = bsonutil.MustHaveTag(Review{}, "User")
	ReviewTextKey   = bsonutil.MustHaveTag(Review{}, "Text")
	ReviewRatingKey = bsonutil.MustHaveTag(Review{}, "Rating")
)

// ById returns a query matching the destination with the given id.
func ById(id primitive.ObjectID) bson.M {
	return bson.M{IdKey: id}
}

// ByName returns a query matching destinations with exactly this name.
func ByName(name string) bson.M {
	return bson.M{NameKey: name}
}

// ByLocation returns a query matching destinations whose location contains
// the given text, ignoring case. The text is matched literally.
func ByLocation(location string) bson.M {
	return bson.M{LocationKey: primitive.Regex{Pattern: regexp.QuoteMeta(location), Options: "i"}}
}

// ByMinRating returns a query matching destinations rated at or above
// threshold.
func ByMinRating(threshold float64) bson.M {
	return bson.M{RatingKey: bson.M{"$gte": threshold}}
}

// FindOne returns the destination matching the query, or nil if there is
// none.
func FindOne(ctx context.Context, q db.Q) (*Destination, error) {
	d := &Destination{}
	err := db.FindOneQ(ctx, Collection, q, d)
	if db.ResultsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding destination")
	}
	return d, nil
}

// Find returns all destinations matching the query.
func Find(ctx context.Context, q db.Q) ([]Destination, error) {
	destinations := []Destination{}
	if err := db.FindAllQ(ctx, Collection, q, &destinations); err != nil {
		return nil, errors.Wrap(err, "finding destinations")
	}
	return destinations, nil
}

// findNonEmpty runs the query and returns nil rather than an empty slice
// when nothing matches.
func findNonEmpty(ctx context.Context, op string, q db.Q, fields message.Fields) ([]Destination, error) {
	fields["op"] = op
	fields["collection"] = Collection

	destinations, err := Find(ctx, q)
	if err != nil {
		fields["message"] = "problem reading destinations"
		grip.Error(message.WrapError(err, fields))
		return nil, err
	}
	if len(destinations) == 0 {
		fields["message"] = "no destinations found"
		grip.Info(fields)
		return nil, nil
	}

	fields["message"] = "found destinations"
	fields["count"] = len(destinations)
	grip.Debug(fields)
	return destinations, nil
}

// Create inserts the destination with a new id and an empty list of
// reviews if none were given, and returns what was stored.
func Create(ctx context.Context, d Destination) (*Destination, error) {
	if d.Id.IsZero() {
		d.Id = primitive.NewObjectID()
	}
	if d.Reviews == nil {
		d.Reviews = []Review{}
	}

	if err := db.Insert(ctx, Collection, d); err != nil {
		grip.Error(message.WrapError(err, message.Fields{
			"message":       "problem saving destination",
			"op":            "create",
			"name":          d.Name,
			"duplicate_key": db.IsDuplicateKey(err),
		}))
		return nil, errors.Wrap(err, "saving destination")
	}

	grip.Info(message.Fields{
		"message": "new destination added",
		"op":      "create",
		"id":      d.Id.Hex(),
		"name":    d.Name,
	})
	return &d, nil
}

// FindByName returns the first destination with exactly this name, or nil if
// there is none.
func FindByName(ctx context.Context, name string) (*Destination, error) {
	d, err := FindOne(ctx, db.Query(ByName(name)))
	if err != nil {
		grip.Error(message.WrapError(err, message.Fields{
			"message": "problem finding destination by name",
			"op":      "find_by_name",
			"name":    name,
		}))
		return nil, err
	}
	if d == nil {
		grip.Info(message.Fields{
			"message": "destination not found",
			"op":      "find_by_name",
			"name":    name,
		})
	}
	return d, nil
}

// FindAll returns every destination in the order the store returns them,
// or nil if there are none.
func FindAll(ctx context.Context) ([]Destination, error) {
	return findNonEmpty(ctx, "find_all", db.Query(bson.M{}), message.Fields{})
}

// FindByLocation returns the destinations whose location contains the given
// text, ignoring case, or nil if there are none.
func FindByLocation(ctx context.Context, location string) ([]Destination, error) {
	return findNonEmpty(ctx, "find_by_location", db.Query(ByLocation(location)), message.Fields{
		"location": location,
	})
}

// FindAllSortedByRatingDesc returns every destination, highest rated first,
// or nil if there are none. Equal ratings are ordered by id, which follows
// insertion order.
func FindAllSortedByRatingDesc(ctx context.Context) ([]Destination, error) {
	q := db.Query(bson.M{}).Sort([]string{"-" + RatingKey, IdKey})
	return findNonEmpty(ctx, "find_sorted_by_rating", q, message.Fields{})
}

// FindByMinRating returns the destinations rated at or above threshold.
// Unlike the other finders, finding none is an error, ErrNoneAtMinRating. A
// NaN threshold matches nothing.
func FindByMinRating(ctx context.Context, threshold float64) ([]Destination, error) {
	fields := message.Fields{
		"op":        "find_by_min_rating",
		"threshold": threshold,
	}

	var destinations []Destination
	if !math.IsNaN(threshold) {
		var err error
		destinations, err = findNonEmpty(ctx, "find_by_min_rating", db.Query(ByMinRating(threshold)), message.Fields{
			"threshold": threshold,
		})
		if err != nil {
			return nil, err
		}
	}

	if len(destinations) == 0 {
		fields["message"] = "no destinations at or above minimum rating"
		grip.Info(fields)
		return nil, errors.WithStack(ErrNoneAtMinRating)
	}
	return destinations, nil
}

// UpdateById replaces the fields set in the patch and returns the
// destination as it is after the update. An id that matches nothing,
// including one that is not a valid ObjectID, is ErrNotFound.
func UpdateById(ctx context.Context, id string, patch Patch) (*Destination, error) {
	fields := message.Fields{
		"op": "update_by_id",
		"id": id,
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		fields["message"] = "destination not found"
		grip.Info(fields)
		return nil, errors.WithStack(ErrNotFound)
	}

	var updated *Destination
	if patch.IsEmpty() {
		updated, err = FindOne(ctx, db.Query(ById(oid)))
		if err != nil {
			fields["message"] = "problem finding destination to update"
			grip.Error(message.WrapError(err, fields))
			return nil, err
		}
	} else {
		updated = &Destination{}
		err = db.FindOneAndUpdate(ctx, Collection, ById(oid), bson.M{"$set": patch.setDoc()}, updated)
		if db.ResultsNotFound(err) {
			updated = nil
		} else if err != nil {
			fields["message"] = "problem updating destination"
			grip.Error(message.WrapError(err, fields))
			return nil, errors.Wrap(err, "updating destination")
		}
	}

	if updated == nil {
		fields["message"] = "destination not found"
		grip.Info(fields)
		return nil, errors.WithStack(ErrNotFound)
	}

	fields["message"] = "updated destination"
	grip.Info(fields)
	return updated, nil
}

// DeleteById removes the destination and returns it as it was before
// removal. An id that matches nothing is ErrNotFound.
func DeleteById(ctx context.Context, id string) (*Destination, error) {
	fields := message.Fields{
		"op": "delete_by_id",
		"id": id,
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		fields["message"] = "destination not deleted"
		grip.Info(fields)
		return nil, errors.WithStack(ErrNotFound)
	}

	deleted := &Destination{}
	err = db.FindOneAndDelete(ctx, Collection, ById(oid), deleted)
	if db.ResultsNotFound(err) {
		fields["message"] = "destination not deleted"
		grip.Info(fields)
		return nil, errors.WithStack(ErrNotFound)
	}
	if err != nil {
		fields["message"] = "problem deleting destination"
		grip.Error(message.WrapError(err, fields))
		return nil, errors.Wrap(err, "deleting destination")
	}

	fields["message"] = "deleted destination"
	grip.Info(fields)
	return deleted, nil
}

// AppendReview adds the review to the end of the destination's reviews and
// returns the updated destination, or nil if no destination has this id.
// The destination's own rating is not changed.
func AppendReview(ctx context.Context, id string, review Review) (*Destination, error) {
	fields := message.Fields{
		"op":   "append_review",
		"id":   id,
		"user": review.User.Hex(),
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		fields["message"] = "no destination with the provided id"
		grip.Info(fields)
		return nil, nil
	}

	updated := &Destination{}
	err = db.FindOneAndUpdate(ctx, Collection, ById(oid), bson.M{"$push": bson.M{ReviewsKey: review}}, updated)
	if db.ResultsNotFound(err) {
		fields["message"] = "no destination with the provided id"
		grip.Info(fields)
		return nil, nil
	}
	if err != nil {
		fields["message"] = "problem adding review to destination"
		fields["document_limit"] = db.IsDocumentLimit(err)
		grip.Error(message.WrapError(err, fields))
		return nil, errors.Wrap(err, "adding review to destination")
	}

	fields["message"] = "review added to destination"
	fields["reviews"] = len(updated.Reviews)
	grip.Info(fields)
	return updated, nil
}

// GetReviewsWithUserDetails returns the first reviews of the destination,
// in the order they were added, with each author's username resolved. It
// returns nil if no destination has this id and an empty slice if the
// destination has no reviews.
func GetReviewsWithUserDetails(ctx context.Context, id string) ([]ReviewWithAuthor, error) {
	fields := message.Fields{
		"op": "get_reviews_with_user_details",
		"id": id,
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		fields["message"] = "no destination with the provided id"
		grip.Info(fields)
		return nil, nil
	}

	q := db.Query(ById(oid)).Project(bson.M{ReviewsKey: bson.M{"$slice": trailmark.ReviewsPreviewLimit}})
	d, err := FindOne(ctx, q)
	if err != nil {
		fields["message"] = "problem finding destination reviews"
		grip.Error(message.WrapError(err, fields))
		return nil, err
	}
	if d == nil {
		fields["message"] = "no destination with the provided id"
		grip.Info(fields)
		return nil, nil
	}

	reviews := d.Reviews
	if len(reviews) > trailmark.ReviewsPreviewLimit {
		reviews = reviews[:trailmark.ReviewsPreviewLimit]
	}

	ids := make([]primitive.ObjectID, 0, len(reviews))
	seen := map[primitive.ObjectID]bool{}
	for _, r := range reviews {
		if r.User.IsZero() || seen[r.User] {
			continue
		}
		seen[r.User] = true
		ids = append(ids, r.User)
	}

	authors, err := user.FindByIds(ctx, ids)
	if err != nil {
		fields["message"] = "problem resolving review authors"
		grip.Error(message.WrapError(err, fields))
		return nil, errors.Wrap(err, "resolving review authors")
	}
	byId := make(map[primitive.ObjectID]*user.DBUser, len(authors))
	for i := range authors {
		byId[authors[i].Id] = &user.DBUser{Id: authors[i].Id, Username: authors[i].Username}
	}

	out := make([]ReviewWithAuthor, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, ReviewWithAuthor{
			User:   byId[r.User],
			Text:   r.Text,
			Rating: r.Rating,
		})
	}

	fields["message"] = "fetched destination reviews"
	fields["count"] = len(out)
	grip.Debug(fields)
	return out, nil
}
