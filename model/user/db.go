package user

import (
	"context"

	"github.com/mongodb/anser/bsonutil"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/trailmark/trailmark"
	"github.com/trailmark/trailmark/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const Collection = trailmark.UsersCollection

var (
	IdKey       = bsonutil.MustHaveTag(DBUser{}, "Id")
	UsernameKey = bsonutil.MustHaveTag(DBUser{}, "Username")
	EmailKey    = bsonutil.MustHaveTag(DBUser{}, "Email")
)

// ByIds returns a query for the users with the given ids.
func ByIds(ids []primitive.ObjectID) bson.M {
	return bson.M{IdKey: bson.M{"$in": ids}}
}

// Find returns all users matching the query.
func Find(ctx context.Context, q db.Q) ([]DBUser, error) {
	users := []DBUser{}
	if err := db.FindAllQ(ctx, Collection, q, &users); err != nil {
		return nil, errors.Wrap(err, "finding users")
	}
	return users, nil
}

// FindAll returns every user. A failed read is logged and reported as no
// users at all.
func FindAll(ctx context.Context) []DBUser {
	users, err := Find(ctx, db.Query(bson.M{}))
	if err != nil {
		grip.Error(message.WrapError(err, message.Fields{
			"message":    "problem getting all users",
			"op":         "find_all",
			"collection": Collection,
		}))
		return nil
	}

	grip.Debug(message.Fields{
		"message": "fetched all users",
		"op":      "find_all",
		"count":   len(users),
	})
	return users
}

// FindByIds returns the users with the given ids with only the id and
// username populated. Ids that match no user are omitted.
func FindByIds(ctx context.Context, ids []primitive.ObjectID) ([]DBUser, error) {
	if len(ids) == 0 {
		return []DBUser{}, nil
	}

	q := db.Query(ByIds(ids)).Project(bson.M{IdKey: 1, UsernameKey: 1})
	users, err := Find(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "finding users by id")
	}
	return users, nil
}
