package data

import (
	"context"

	"github.com/trailmark/trailmark/model/user"
	"go.opentelemetry.io/otel/attribute"
)

// DBUserConnector is a struct that implements the User related interface
// of the Connector interface through interactions with the backing database.
type DBUserConnector struct{}

// FindAllUsers returns every user, or nil if they could not be read.
func (uc *DBUserConnector) FindAllUsers(ctx context.Context) []user.DBUser {
	ctx, span := startSpan(ctx, "FindAllUsers")
	users := user.FindAll(ctx)
	span.SetAttributes(attribute.Int(resultCountAttribute, len(users)))
	endSpan(span, nil)
	return users
}
