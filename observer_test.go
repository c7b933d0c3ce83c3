package ice

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshotBasic(t *testing.T) {
	m := NewMetrics()
	m.RecordAccept(1_000, nil)
	m.RecordRecv(128, 2_000, nil)
	m.RecordSend(64, 3_000, nil)
	m.RecordRecv(0, 1_500, errors.New("boom"))

	snap := m.Snapshot()
	require.EqualValues(t, 1, snap.AcceptOps)
	require.EqualValues(t, 2, snap.RecvOps)
	require.EqualValues(t, 1, snap.SendOps)
	require.EqualValues(t, 1, snap.RecvErrors)
	require.EqualValues(t, 128, snap.RecvBytes)
	require.EqualValues(t, 64, snap.SendBytes)
	require.Equal(t, uint64(4), snap.TotalOps)
	require.Greater(t, snap.ErrorRate, 0.0)
}

func TestMetricsObserverDelegates(t *testing.T) {
	m := NewMetrics()
	obs := NewMetricsObserver(m)
	obs.ObserveSend(32, 500, nil)

	snap := m.Snapshot()
	require.EqualValues(t, 1, snap.SendOps)
	require.EqualValues(t, 32, snap.SendBytes)
}

func TestNoOpObserverDoesNothing(t *testing.T) {
	var obs Observer = NoOpObserver{}
	obs.ObserveAccept(0, nil)
	obs.ObserveConnect(0, nil)
	obs.ObserveRecv(0, 0, nil)
	obs.ObserveSend(0, 0, nil)
}
