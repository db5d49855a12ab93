package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRoundTrip(t *testing.T) {
	ctx := WithProject(context.Background(), "demo-project")
	project, err := GetProjectFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "demo-project", project)
}

func TestGetProjectFromContext_Missing(t *testing.T) {
	_, err := GetProjectFromContext(context.Background())
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")
	id, err := GetRequestIDFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "req-42", id)
}

func TestGetRequestIDFromContext_Missing(t *testing.T) {
	_, err := GetRequestIDFromContext(context.Background())
	assert.ErrorIs(t, err, ErrRequestIDNotFound)
}
