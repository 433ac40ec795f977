package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"

	"go.uber.org/zap"
)

var debug bool
var listenAddr string
var upper bool

var logger = zap.NewNop()

func init() {
	flag.BoolVar(&debug, "debug", false, "debug logging")
	flag.StringVar(&listenAddr, "l", ":5555", "listen address")
	flag.BoolVar(&upper, "upper", false, "uppercase replies")
}

func main() {
	var err error

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}

	if err != nil {
		log.Fatalln("failed to create logger:", err)
	}

	e, err := NewEchoer(listenAddr, upper)
	if err != nil {
		logger.Fatal("failed to start echoer", zap.Error(err))
	}

	if err := e.Serve(ctx); err != nil {
		logger.Fatal("echoer failed", zap.Error(err))
	}
}

// Echoer answers each datagram it receives by writing it back to the sender.
type Echoer struct {
	conn  *net.UDPConn
	upper bool
}

// NewEchoer binds a UDP socket on addr.
func NewEchoer(addr string, upper bool) (*Echoer, error) {
	uaddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listen address %q: %w", addr, err)
	}

	conn, err := net.ListenUDP("udp", uaddr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on address %s: %w", addr, err)
	}

	return &Echoer{
		conn:  conn,
		upper: upper,
	}, nil
}

// Addr returns the bound local address.
func (e *Echoer) Addr() net.Addr {
	return e.conn.LocalAddr()
}

// Serve echoes datagrams until the context is closed.  It returns nil on context closure.
func (e *Echoer) Serve(ctx context.Context) error {
	logger.Info("starting echoer", zap.String("socket", e.Addr().String()))

	go func() {
		<-ctx.Done()

		if err := e.conn.Close(); err != nil {
			logger.Error("failed to close listener on context closure",
				zap.Error(err),
			)
		}
	}()

	b := make([]byte, 2048)

	for {
		n, from, err := e.conn.ReadFromUDP(b)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("failed to read from socket: %w", err)
		}

		logger.Debug("received data",
			zap.ByteString("data", b[:n]),
			zap.String("from", from.String()),
		)

		m := b[:n]
		if e.upper {
			m = bytes.ToUpper(m)
		}

		if _, err := e.conn.WriteToUDP(m, from); err != nil {
			logger.Error("failed to write reply",
				zap.String("target", from.String()),
				zap.Error(err),
			)
		}
	}
}
