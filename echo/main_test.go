package main

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startEchoer(t *testing.T, upper bool) net.Addr {
	t.Helper()

	e, err := NewEchoer("127.0.0.1:0", upper)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- e.Serve(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})

	return e.Addr()
}

func roundTrip(t *testing.T, addr net.Addr, m string) string {
	t.Helper()

	conn, err := net.DialUDP("udp", nil, addr.(*net.UDPAddr))
	require.NoError(t, err)
	defer conn.Close() //nolint:errcheck

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	_, err = conn.Write([]byte(m))
	require.NoError(t, err)

	b := make([]byte, 1024)
	n, err := conn.Read(b)
	require.NoError(t, err)

	return string(b[:n])
}

func TestEchoer(t *testing.T) {
	addr := startEchoer(t, false)

	assert.Equal(t, "TEST DATA 0", roundTrip(t, addr, "TEST DATA 0"))
	assert.Equal(t, "hello", roundTrip(t, addr, "hello"))
}

func TestEchoerUpper(t *testing.T) {
	addr := startEchoer(t, true)

	assert.Equal(t, "HELLO 1", roundTrip(t, addr, "hello 1"))
}

func TestNewEchoerBadAddress(t *testing.T) {
	_, err := NewEchoer("not an address", false)
	require.Error(t, err)
}
