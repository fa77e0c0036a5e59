package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpigajesse/yoozak-backoffice/internal/utils"
)

func TestValue(t *testing.T) {
	require.Equal(t, "", utils.Value[string](nil))
	require.Equal(t, int64(0), utils.Value[int64](nil))
	require.Equal(t, "ana", utils.Value(utils.Ptr("ana")))
}

func TestPtr(t *testing.T) {
	p := utils.Ptr(int64(7))
	require.NotNil(t, p)
	require.Equal(t, int64(7), *p)
}
