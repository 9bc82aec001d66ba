package model

import (
	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
	"github.com/trailmark/trailmark/model/destination"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type APIDestination struct {
	Id       *string     `json:"_id,omitempty"`
	Name     *string     `json:"name"`
	Location *string     `json:"location"`
	Rating   *float64    `json:"rating"`
	Reviews  []APIReview `json:"reviews"`
}

// BuildFromService converts from service level structs to an APIDestination.
func (d *APIDestination) BuildFromService(in destination.Destination) {
	d.Id = utility.ToStringPtr(in.Id.Hex())
	d.Name = utility.ToStringPtr(in.Name)
	d.Location = utility.ToStringPtr(in.Location)
	d.Rating = utility.ToFloat64Ptr(in.Rating)
	d.Reviews = make([]APIReview, 0, len(in.Reviews))
	for _, r := range in.Reviews {
		apiReview := APIReview{}
		apiReview.BuildFromService(r)
		d.Reviews = append(d.Reviews, apiReview)
	}
}

// ToService returns a service layer destination. An id, if given, must be a
// valid ObjectID.
func (d *APIDestination) ToService() (destination.Destination, error) {
	out := destination.Destination{
		Name:     utility.FromStringPtr(d.Name),
		Location: utility.FromStringPtr(d.Location),
		Rating:   utility.FromFloat64Ptr(d.Rating),
	}

	if id := utility.FromStringPtr(d.Id); id != "" {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return destination.Destination{}, errors.Wrapf(err, "invalid destination id '%s'", id)
		}
		out.Id = oid
	}

	if d.Reviews != nil {
		out.Reviews = make([]destination.Review, 0, len(d.Reviews))
		for i, r := range d.Reviews {
			review, err := r.ToService()
			if err != nil {
				return destination.Destination{}, errors.Wrapf(err, "converting review %d", i)
			}
			out.Reviews = append(out.Reviews, review)
		}
	}

	return out, nil
}

// ToPatch returns the fields of the destination that were set, for use as
// a partial update.
func (d *APIDestination) ToPatch() destination.Patch {
	return destination.Patch{
		Name:     d.Name,
		Location: d.Location,
		Rating:   d.Rating,
	}
}

// APIReview is a review as it is stored, with the author as a user id.
type APIReview struct {
	User   *string  `json:"user"`
	Text   *string  `json:"text"`
	Rating *float64 `json:"rating,omitempty"`
}

func (r *APIReview) BuildFromService(in destination.Review) {
	r.User = utility.ToStringPtr(in.User.Hex())
	r.Text = utility.ToStringPtr(in.Text)
	r.Rating = in.Rating
}

func (r *APIReview) ToService() (destination.Review, error) {
	userId, err := primitive.ObjectIDFromHex(utility.FromStringPtr(r.User))
	if err != nil {
		return destination.Review{}, errors.Wrapf(err, "invalid user id '%s'", utility.FromStringPtr(r.User))
	}
	return destination.Review{
		User:   userId,
		Text:   utility.FromStringPtr(r.Text),
		Rating: r.Rating,
	}, nil
}

// APIReviewSubmission is the request body for adding a review.
type APIReviewSubmission struct {
	UserId     *string  `json:"userId"`
	ReviewText *string  `json:"reviewText"`
	Rating     *float64 `json:"rating"`
}

// ToService returns the review to append. The user id must be a valid
// ObjectID.
func (s *APIReviewSubmission) ToService() (destination.Review, error) {
	userId := utility.FromStringPtr(s.UserId)
	if userId == "" {
		return destination.Review{}, errors.New("user id must be specified")
	}
	oid, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return destination.Review{}, errors.Wrapf(err, "invalid user id '%s'", userId)
	}

	return destination.Review{
		User:   oid,
		Text:   utility.FromStringPtr(s.ReviewText),
		Rating: s.Rating,
	}, nil
}

// APIReviewAuthor is the part of a user shown alongside their review.
type APIReviewAuthor struct {
	Username *string `json:"username"`
}

// APIReviewWithAuthor is a review with its author resolved. User is null when
// the author no longer exists.
type APIReviewWithAuthor struct {
	User   *APIReviewAuthor `json:"user"`
	Text   *string          `json:"text"`
	Rating *float64         `json:"rating,omitempty"`
}

func (r *APIReviewWithAuthor) BuildFromService(in destination.ReviewWithAuthor) {
	r.User = nil
	if in.User != nil {
		r.User = &APIReviewAuthor{Username: utility.ToStringPtr(in.User.Username)}
	}
	r.Text = utility.ToStringPtr(in.Text)
	r.Rating = in.Rating
}
