package main

import (
	"investorly/internal/domain"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func Test_parseAllocations(t *testing.T) {
	out, err := parseAllocations([]string{"voo=60", "BTC= 20", "VOO=5"})
	require.NoError(t, err)
	require.Equal(t, "", cmp.Diff(domain.AllocationSet{"VOO": 65, "BTC": 20}, out))

	_, err = parseAllocations([]string{"VOO"})
	require.Error(t, err)

	_, err = parseAllocations([]string{"VOO=abc"})
	require.Error(t, err)
}

func Test_newRootCmd(t *testing.T) {
	names := []string{}
	for _, c := range newRootCmd().Commands() {
		names = append(names, c.Name())
	}
	require.ElementsMatch(t, []string{"simulate", "assets", "fetch", "generate-fixed-income", "chat"}, names)
}
