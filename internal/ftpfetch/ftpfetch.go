// Package ftpfetch downloads the supplier inventory feed over FTP to a local
// path for the inventory pipeline to consume.
package ftpfetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rs/zerolog"

	"github.com/hd9319/ecommerce-app/internal/apperr"
)

// Client holds FTP connection settings for the supplier endpoint.
type Client struct {
	Host     string
	Port     int
	User     string
	Password string
	Timeout  time.Duration
	Log      zerolog.Logger
}

// Download retrieves remote into local, creating parent directories as
// needed. The write goes through a temp file plus rename so a dropped
// connection never leaves a truncated feed behind.
func (c *Client) Download(ctx context.Context, remote, local string) error {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	addr := net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	conn, err := ftp.Dial(addr, ftp.DialWithContext(ctx), ftp.DialWithTimeout(timeout))
	if err != nil {
		return apperr.Config(addr, fmt.Errorf("ftp dial: %w", err))
	}
	defer func() { _ = conn.Quit() }()

	if err := conn.Login(c.User, c.Password); err != nil {
		return apperr.Config(addr, fmt.Errorf("ftp login: %w", err))
	}

	resp, err := conn.Retr(remote)
	if err != nil {
		return apperr.Config(remote, fmt.Errorf("ftp retr: %w", err))
	}
	defer resp.Close()

	if err := os.MkdirAll(filepath.Dir(local), 0o755); err != nil {
		return apperr.Config(local, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(local), ".inventory-*")
	if err != nil {
		return apperr.Config(local, err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp)
	if cerr := tmp.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return apperr.Parse(remote, fmt.Errorf("ftp download: %w", err))
	}
	if err := os.Rename(tmp.Name(), local); err != nil {
		return apperr.Config(local, err)
	}

	c.Log.Info().
		Str("remote", remote).
		Str("local", local).
		Int64("bytes", n).
		Msg("inventory feed downloaded")
	return nil
}
