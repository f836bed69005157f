package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowsheet/pkg/store"
)

// TestMongoStore runs against a live MongoDB when FLOWSHEET_MONGO_URI is set.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("FLOWSHEET_MONGO_URI")
	if uri == "" {
		t.Skip("FLOWSHEET_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := store.NewMongoStore(ctx, uri, "flowsheet_test_"+store.NewID()[:8])
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	testStore(t, s)
}
