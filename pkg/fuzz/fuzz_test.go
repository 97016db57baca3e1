package fuzz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFuzzerFindsNoFailures(t *testing.T) {
	fz := NewFuzzer(1, 2)
	rep := fz.Run(2000)

	require.Equal(t, 2000, rep.Checked)
	require.Empty(t, rep.Failures, "%v", rep.Failures)
}

func TestFuzzerIsDeterministicForASeed(t *testing.T) {
	a := NewFuzzer(42, 7).Run(500)
	b := NewFuzzer(42, 7).Run(500)
	require.Equal(t, a, b)
}
