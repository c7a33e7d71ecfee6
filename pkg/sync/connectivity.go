package sync

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Checker reports whether the client can reach the backend. Offline is
// an expected precondition failure for every sync pass, not an error.
type Checker interface {
	Online() bool
}

// NetChecker is online when a non-loopback interface is up and a probe
// request actually reaches the backend. The probe is what separates
// "attached to a network" from "validated internet reach".
type NetChecker struct {
	ProbeURL string
	client   *http.Client
}

func NewNetChecker(probeURL string, timeout time.Duration) *NetChecker {
	return &NetChecker{
		ProbeURL: probeURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (n *NetChecker) Online() bool {
	if !hasActiveInterface() {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), n.client.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, n.ProbeURL, nil)
	if err != nil {
		return false
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	// Any HTTP response proves the backend is reachable; the status
	// itself does not matter here.
	return true
}

func hasActiveInterface() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err == nil && len(addrs) > 0 {
			return true
		}
	}
	return false
}
