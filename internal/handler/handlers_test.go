package handler

import (
	"testing"

	"github.com/MKhiriev/agricheck/internal/config"
	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Neither transport handler dereferences the services during construction,
// so a nil container is enough here.
func TestNewHandlers(t *testing.T) {
	tests := []struct {
		name     string
		server   config.Server
		wantHTTP bool
		wantGRPC bool
	}{
		{name: "both", server: config.Server{HTTPAddress: ":8000", GRPCAddress: ":9090"}, wantHTTP: true, wantGRPC: true},
		{name: "http only", server: config.Server{HTTPAddress: ":8000"}, wantHTTP: true},
		{name: "grpc only", server: config.Server{GRPCAddress: ":9090"}, wantGRPC: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHandlers(nil, config.StructuredConfig{Server: tt.server}, logger.Nop())

			require.NoError(t, err)
			require.NotNil(t, h)
			assert.Equal(t, tt.wantHTTP, h.HTTP != nil)
			assert.Equal(t, tt.wantGRPC, h.GRPC != nil)
		})
	}
}

func TestNewHandlers_NoAddresses(t *testing.T) {
	h, err := NewHandlers(nil, config.StructuredConfig{}, logger.Nop())

	require.ErrorIs(t, err, errNoTransportAddress)
	assert.Nil(t, h)
}

func TestNewHandlers_IndependentInstances(t *testing.T) {
	cfg := config.StructuredConfig{Server: config.Server{HTTPAddress: ":8000", GRPCAddress: ":9090"}}

	h1, err1 := NewHandlers(nil, cfg, logger.Nop())
	h2, err2 := NewHandlers(nil, cfg, logger.Nop())

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.NotSame(t, h1.HTTP, h2.HTTP)
	assert.NotSame(t, h1.GRPC, h2.GRPC)
}
