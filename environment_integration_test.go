package trailmark_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trailmark/trailmark"
	"github.com/trailmark/trailmark/testutil"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func TestNewEnvironmentConnects(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	env := testutil.NewEnvironment(ctx, t)

	assert.Equal(t, env, trailmark.GetEnvironment())
	assert.Equal(t, testutil.TestDatabase, env.DB().Name())
	require.NoError(t, env.Client().Ping(ctx, readpref.Primary()))
}
