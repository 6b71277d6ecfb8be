package snapshot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBucketManagerRejectsNilClient(t *testing.T) {
	_, err := NewBucketManager(nil, "us-east-1")
	require.Error(t, err)
}
