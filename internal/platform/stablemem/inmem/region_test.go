package inmem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/agrovet-registry/internal/platform/stablemem"
	"github.com/Apurer/agrovet-registry/internal/platform/stablemem/regiontest"
)

func TestRegionConformance(t *testing.T) {
	region := NewRegion()
	regiontest.Run(t, func(*testing.T) stablemem.Region { return region })
}

func TestClosedRegion(t *testing.T) {
	region := NewRegion()
	part, err := region.Partition(stablemem.AgrovetsMemory)
	require.NoError(t, err)
	require.NoError(t, region.Close())

	_, _, err = part.Get(context.Background(), []byte{1})
	require.ErrorIs(t, err, stablemem.ErrClosed)
}
