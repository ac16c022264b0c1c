package tor

import (
	"context"
	"fmt"
	"time"

	"github.com/nao1215/tornago"
)

// DefaultStartupTimeout bounds how long Start waits for Tor to bootstrap.
const DefaultStartupTimeout = 3 * time.Minute

// Daemon is an embedded Tor process started through tornago.
//
// Bootstrapping downloads the consensus and builds the first circuits, so
// Start usually takes between several seconds and a few minutes.
type Daemon struct {
	process        *tornago.TorProcess
	socksAddr      string
	controlAddr    string
	startupTimeout time.Duration
}

// DaemonOption configures a Daemon.
type DaemonOption func(*Daemon)

// WithStartupTimeout sets the bootstrap timeout. Non-positive values keep
// the default.
func WithStartupTimeout(timeout time.Duration) DaemonOption {
	return func(d *Daemon) {
		if timeout > 0 {
			d.startupTimeout = timeout
		}
	}
}

// NewDaemon returns a stopped daemon. Call Start to launch it.
func NewDaemon(opts ...DaemonOption) *Daemon {
	d := &Daemon{startupTimeout: DefaultStartupTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches Tor on OS-assigned SOCKS and control ports and blocks
// until it has bootstrapped. If ctx is cancelled meanwhile the process is
// stopped again and ctx.Err() is returned.
func (d *Daemon) Start(ctx context.Context) error {
	launchCfg, err := tornago.NewTorLaunchConfig(
		tornago.WithTorSocksAddr(":0"),
		tornago.WithTorControlAddr(":0"),
		tornago.WithTorStartupTimeout(d.startupTimeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create tor launch config: %w", err)
	}

	process, err := tornago.StartTorDaemon(launchCfg)
	if err != nil {
		return fmt.Errorf("failed to start tor daemon: %w", err)
	}

	if err := ctx.Err(); err != nil {
		_ = process.Stop() //nolint:errcheck // Best effort cleanup
		return err
	}

	d.process = process
	d.socksAddr = process.SocksAddr()
	d.controlAddr = process.ControlAddr()
	return nil
}

// Stop shuts the daemon down. It is a no-op on a daemon that is not running.
func (d *Daemon) Stop() error {
	if d.process == nil {
		return nil
	}
	err := d.process.Stop()
	d.process = nil
	d.socksAddr = ""
	d.controlAddr = ""
	return err
}

// SocksAddr returns the SOCKS5 address in host:port form, or "" before Start.
func (d *Daemon) SocksAddr() string {
	return d.socksAddr
}

// ControlAddr returns the control port address, or "" before Start.
func (d *Daemon) ControlAddr() string {
	return d.controlAddr
}

// Running reports whether Start succeeded and Stop has not been called.
func (d *Daemon) Running() bool {
	return d.process != nil
}

// ProxyAddress returns SocksAddr, or ErrNotRunning before Start.
func (d *Daemon) ProxyAddress() (string, error) {
	if !d.Running() {
		return "", ErrNotRunning
	}
	return d.socksAddr, nil
}
