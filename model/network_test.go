package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildLinearNetwork(t *testing.T) *Network {
	t.Helper()
	net := NewNetwork(false)
	for _, name := range []string{"A", "B", "C"} {
		_, err := net.NewOCP(name, nil)
		require.NoError(t, err)
	}
	_, err := net.NewTrack("A", "B", 1000, 1, 10)
	require.NoError(t, err)
	_, err = net.NewTrack("B", "C", 1000, 1, 10)
	require.NoError(t, err)
	return net
}

func TestShortestPathSimpleChain(t *testing.T) {
	net := buildLinearNetwork(t)
	path := net.ShortestPath("A", "C", 0)
	require.Len(t, path, 2)
	require.Equal(t, "A_B", path[0].Name)
	require.Equal(t, "B_C", path[1].Name)
}

func TestShortestPathUnreachableReturnsEmpty(t *testing.T) {
	net := NewNetwork(false)
	_, _ = net.NewOCP("A", nil)
	_, _ = net.NewOCP("B", nil)
	require.Empty(t, net.ShortestPath("A", "B", 0))
}

func TestShortestPathPrefersFewerTracksOnLengthTie(t *testing.T) {
	net := NewNetwork(false)
	for _, name := range []string{"A", "B", "C"} {
		_, _ = net.NewOCP(name, nil)
	}
	// direct A->C (1000m) ties in length with the two-hop A->B->C
	// (500m+500m); fewer tracks must win.
	_, err := net.NewTrack("A", "C", 1000, 1, 10)
	require.NoError(t, err)
	_, err = net.NewTrack("A", "B", 500, 1, 10)
	require.NoError(t, err)
	_, err = net.NewTrack("B", "C", 500, 1, 10)
	require.NoError(t, err)

	path := net.ShortestPath("A", "C", 0)
	require.Len(t, path, 1)
	require.Equal(t, "A_C", path[0].Name)
}

func TestShortestPathRespectsMaxHops(t *testing.T) {
	net := buildLinearNetwork(t)
	require.Empty(t, net.ShortestPath("A", "C", 1))
	require.Len(t, net.ShortestPath("A", "C", 2), 2)
}

func TestValidateReportsNonPositiveCapacity(t *testing.T) {
	net := NewNetwork(false)
	_, _ = net.NewOCP("A", nil)
	_, _ = net.NewOCP("B", nil)
	track := NewTrack(mustOCP(net, "A"), mustOCP(net, "B"), 100, 1, 10, false)
	track.Capacity = 0
	net.tracks[track.Name] = track

	errs := net.Validate()
	require.NotEmpty(t, errs)
}

func mustOCP(net *Network, name string) *OCP {
	ocp, _ := net.GetOCP(name)
	return ocp
}
