package db

import (
	"context"

	"github.com/pkg/errors"
	"github.com/trailmark/trailmark"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const collectionAttribute = "trailmark.db.collection"

func collection(ctx context.Context, name string) (*mongo.Collection, error) {
	env := trailmark.GetEnvironment()
	if env == nil {
		return nil, errors.New("undefined environment")
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.String(collectionAttribute, name))

	return env.DB().Collection(name), nil
}

// Insert inserts the specified item into the specified collection.
func Insert(ctx context.Context, collectionName string, item any) error {
	coll, err := collection(ctx, collectionName)
	if err != nil {
		return err
	}
	_, err = coll.InsertOne(ctx, item)
	return errors.Wrapf(errors.WithStack(err), "inserting document")
}

// FindOneQ runs a Q query against the given collection, applying the results to "out."
// Only reads one document from the DB. A query with no match returns an
// error for which ResultsNotFound is true.
func FindOneQ(ctx context.Context, collectionName string, q Q, out any) error {
	coll, err := collection(ctx, collectionName)
	if err != nil {
		return err
	}

	return errors.WithStack(coll.FindOne(ctx, filterOrEmpty(q.filter), q.findOneOptions()).Decode(out))
}

// FindAllQ runs a Q query against the given collection, applying the results to "out."
func FindAllQ(ctx context.Context, collectionName string, q Q, out any) error {
	coll, err := collection(ctx, collectionName)
	if err != nil {
		return err
	}

	cursor, err := coll.Find(ctx, filterOrEmpty(q.filter), q.findOptions())
	if err != nil {
		return errors.Wrap(err, "finding documents")
	}

	return errors.Wrap(cursor.All(ctx, out), "decoding documents")
}

// FindOneAndUpdate applies update to the first document matching query and
// decodes the document as it is after the update into out.
func FindOneAndUpdate(ctx context.Context, collectionName string, query, update, out any) error {
	coll, err := collection(ctx, collectionName)
	if err != nil {
		return err
	}

	res := coll.FindOneAndUpdate(ctx, query, update, options.FindOneAndUpdate().SetReturnDocument(options.After))
	return errors.WithStack(res.Decode(out))
}

// FindOneAndDelete removes the first document matching query and decodes
// the removed document into out.
func FindOneAndDelete(ctx context.Context, collectionName string, query, out any) error {
	coll, err := collection(ctx, collectionName)
	if err != nil {
		return err
	}

	return errors.WithStack(coll.FindOneAndDelete(ctx, query).Decode(out))
}

func filterOrEmpty(filter any) any {
	if filter == nil {
		return bson.M{}
	}
	return filter
}

