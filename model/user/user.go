package user

import (
	"context"

	"github.com/pkg/errors"
	"github.com/trailmark/trailmark/db"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DBUser is an account that reviews refer to by id. Users are only read by
// the service.
type DBUser struct {
	Id       primitive.ObjectID `bson:"_id"`
	Username string             `bson:"username"`
	Email    string             `bson:"email,omitempty"`
}

func (u *DBUser) Insert(ctx context.Context) error {
	if u.Id.IsZero() {
		u.Id = primitive.NewObjectID()
	}
	return errors.Wrap(db.Insert(ctx, Collection, u), "inserting user")
}
