package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"
	"unicode/utf8"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	// ErrInvalidReply indicates a reply which is not valid UTF-8 text.
	ErrInvalidReply = errors.New("reply is not valid UTF-8")

	// ErrShortWrite indicates the probe datagram was not fully handed to the transport.
	ErrShortWrite = errors.New("short write")

	// ErrNoReply indicates the read timeout elapsed before a reply arrived.
	ErrNoReply = errors.New("no reply")
)

// payloadPrefix is prepended to the iteration index of each probe.
const payloadPrefix = "TEST DATA "

// replyLabel prefixes each printed reply.
const replyLabel = "Received Data "

// Payload returns the probe message for the given zero-based iteration.
func Payload(i int) []byte {
	return []byte(payloadPrefix + strconv.Itoa(i))
}

// Prober sends a fixed number of text datagrams to a target, printing each reply.  Probes are strictly
// sequential, and each uses its own socket.
type Prober struct {
	cfg *Config
	out io.Writer

	// sleep pauses between probes.  Replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewProber returns a Prober which prints replies to out.
func NewProber(cfg *Config, out io.Writer) *Prober {
	return &Prober{
		cfg:   cfg,
		out:   out,
		sleep: sleepContext,
	}
}

// Run performs the probe loop.  The first error of any kind ends the run.
func (p *Prober) Run(ctx context.Context) error {
	logger.Debug("starting probe run",
		zap.String("target", p.cfg.Target),
		zap.Int("count", p.cfg.Count),
	)

	for i := 0; i < p.cfg.Count; i++ {
		if err := p.probe(ctx, i); err != nil {
			return fmt.Errorf("probe %d: %w", i, err)
		}

		if err := p.sleep(ctx, p.cfg.Interval); err != nil {
			return err
		}
	}

	return nil
}

func (p *Prober) probe(ctx context.Context, i int) (err error) {
	raddr, err := net.ResolveUDPAddr("udp", p.cfg.Target)
	if err != nil {
		return fmt.Errorf("failed to resolve target %q: %w", p.cfg.Target, err)
	}

	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return fmt.Errorf("failed to dial target %s: %w", raddr, err)
	}

	defer func() {
		err = multierr.Append(err, conn.Close())
	}()

	if p.cfg.ReadTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(p.cfg.ReadTimeout)); err != nil {
			return fmt.Errorf("failed to set read deadline: %w", err)
		}
	}

	// Unblock the pending read when the context is cancelled.
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		select {
		case <-ctx.Done():
			conn.SetReadDeadline(time.Unix(1, 0)) //nolint:errcheck
		case <-stop:
		}
	}()

	m := Payload(i)

	logger.Debug("sending probe",
		zap.ByteString("msg", m),
		zap.String("target", conn.RemoteAddr().String()),
	)

	n, err := conn.Write(m)
	if err != nil {
		return fmt.Errorf("failed to write probe: %w", err)
	}

	if n != len(m) {
		return fmt.Errorf("%w: sent %d of %d bytes", ErrShortWrite, n, len(m))
	}

	b := make([]byte, p.cfg.BufferSize)

	n, err = conn.Read(b)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return fmt.Errorf("%w after %s", ErrNoReply, p.cfg.ReadTimeout)
		}

		return fmt.Errorf("failed to read reply: %w", err)
	}

	logger.Debug("received reply", zap.ByteString("data", b[:n]))

	if !utf8.Valid(b[:n]) {
		return fmt.Errorf("%w: % x", ErrInvalidReply, b[:n])
	}

	if _, err := fmt.Fprintln(p.out, replyLabel+string(b[:n])); err != nil {
		return fmt.Errorf("failed to print reply: %w", err)
	}

	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
