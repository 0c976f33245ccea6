package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "frauballmann", NormalizeName(" Frau  Ball\tmann\n"))
	require.Equal(t, "stü", NormalizeName("Stü"))
	require.Equal(t, "", NormalizeName(" \n"))
}
