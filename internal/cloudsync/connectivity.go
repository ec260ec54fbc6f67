package cloudsync

import (
	"context"
	"net"
	"net/url"
	"time"
)

const defaultProbeTimeout = 2 * time.Second

// Connectivity reports whether the remote API is reachable at all.
type Connectivity interface {
	Online(ctx context.Context) bool
}

// Static is a fixed connectivity answer.
type Static bool

// Online returns the fixed value.
func (s Static) Online(context.Context) bool { return bool(s) }

// DialProbe treats a successful TCP connect to the API host as online.
type DialProbe struct {
	Addr    string
	Timeout time.Duration
	dial    func(ctx context.Context, network, addr string) (net.Conn, error)
}

// NewDialProbe derives host:port from the API base URL.
func NewDialProbe(baseURL string, timeout time.Duration) (*DialProbe, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	d := &net.Dialer{}
	return &DialProbe{
		Addr:    net.JoinHostPort(u.Hostname(), port),
		Timeout: timeout,
		dial:    d.DialContext,
	}, nil
}

// Online dials Addr and closes the connection immediately.
func (p *DialProbe) Online(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()
	conn, err := p.dial(ctx, "tcp", p.Addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
