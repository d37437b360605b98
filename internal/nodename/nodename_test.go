package nodename

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name         string
		fullName     string
		shortName    string
		wantMode     Mode
		wantIdentity string
		wantErr      error
	}{
		{name: "neither is a no-op", wantMode: ModeNone},
		{name: "full name", fullName: "dev@build.example.com", wantMode: ModeFull, wantIdentity: "dev@build.example.com"},
		{name: "short name", shortName: "dev", wantMode: ModeLocal, wantIdentity: "dev"},
		{name: "both is ambiguous", fullName: "a@b", shortName: "a", wantErr: ErrAmbiguousIdentity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, identity, err := Plan(tt.fullName, tt.shortName)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, mode)
			assert.Equal(t, tt.wantIdentity, identity)
		})
	}
}

func TestServiceStartWithDiscoveryRunning(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	svc := NewService(ln.Addr().String())
	assert.NoError(t, svc.Start("dev", ModeLocal))
}

func TestServiceStartWithoutDiscovery(t *testing.T) {
	// Grab a port and release it so nothing is listening there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	svc := NewService(addr)
	err = svc.Start("dev", ModeLocal)
	assert.ErrorIs(t, err, ErrDiscoveryUnavailable)
}

func TestServiceStartNoneMode(t *testing.T) {
	svc := NewService("127.0.0.1:1")
	assert.NoError(t, svc.Start("", ModeNone))
}
