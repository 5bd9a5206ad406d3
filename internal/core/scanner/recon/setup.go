package recon

import (
	"fmt"
	"net"
)

// LocalSourceIP discovers the local address the kernel would route
// through to reach dst, without sending any traffic (the dial is never
// written to). Same trick as alive.TcpSynProber's unexported
// localSourceIP, exported here since the engine-assembly wiring needs it
// once per scan rather than once per probe.
func LocalSourceIP(dst net.IP) (net.IP, error) {
	conn, err := net.Dial("udp4", net.JoinHostPort(dst.String(), "9"))
	if err != nil {
		return nil, fmt.Errorf("recon: resolve local source ip: %w", err)
	}
	defer conn.Close()
	local := conn.LocalAddr().(*net.UDPAddr)
	return local.IP, nil
}
