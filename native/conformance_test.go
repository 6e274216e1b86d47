package native_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/opfsgo"
	"github.com/hupe1980/opfsgo/native"
	"github.com/hupe1980/opfsgo/opfstest"
)

func TestConformance(t *testing.T) {
	opfstest.Run(t, func(t *testing.T) opfsgo.Directory {
		dir, err := native.NewDirectory(t.TempDir())
		require.NoError(t, err)

		return dir
	}, opfstest.Profile{TruncatesOnWrite: false})
}
