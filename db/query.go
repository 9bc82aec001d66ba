package db

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Q holds all information necessary to execute a query
type Q struct {
	filter     any
	projection any
	sort       []string
}

// Query creates a db.Q for the given MongoDB query. The filter
// can be a struct, bson.D, bson.M, nested bson.M, or any other
// type that can be marshaled to BSON.
func Query(filter any) Q {
	return Q{filter: filter}
}

func (q Q) Project(projection any) Q {
	q.projection = projection
	return q
}

// Sort takes field names, each optionally prefixed with "-" for descending
// order.
func (q Q) Sort(sort []string) Q {
	q.sort = sort
	return q
}

func (q Q) findOptions() *options.FindOptions {
	opts := options.Find()
	if q.projection != nil {
		opts.SetProjection(q.projection)
	}
	if len(q.sort) > 0 {
		opts.SetSort(sortDoc(q.sort))
	}
	return opts
}

func (q Q) findOneOptions() *options.FindOneOptions {
	opts := options.FindOne()
	if q.projection != nil {
		opts.SetProjection(q.projection)
	}
	if len(q.sort) > 0 {
		opts.SetSort(sortDoc(q.sort))
	}
	return opts
}

func sortDoc(fields []string) bson.D {
	doc := bson.D{}
	for _, f := range fields {
		if f == "" {
			continue
		}
		if strings.HasPrefix(f, "-") {
			doc = append(doc, bson.E{Key: f[1:], Value: -1})
			continue
		}
		doc = append(doc, bson.E{Key: strings.TrimPrefix(f, "+"), Value: 1})
	}
	return doc
}
