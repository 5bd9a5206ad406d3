//go:build !windows

package alive

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"syscall"
	"time"

	"prtip/internal/core/lib/network/netraw"
)

// TcpSynProber 使用原始套接字发送 TCP SYN 探测目标是否存活。
// 构造/发送/解析均基于 netraw 包 (与 recon 引擎共享同一套包编解码逻辑)。
// 如果当前进程没有 CAP_NET_RAW (非 root)，回退到 TCP Connect 探测，
// 保持本探测器在任何权限下都能工作。
type TcpSynProber struct {
	Ports []int
}

func NewTcpSynProber(ports []int) *TcpSynProber {
	return &TcpSynProber{Ports: ports}
}

func (p *TcpSynProber) Probe(ctx context.Context, ip string, timeout time.Duration) (bool, error) {
	if len(p.Ports) == 0 {
		return false, fmt.Errorf("tcp syn prober: no ports configured")
	}

	alive, err := p.probeRaw(ctx, ip, p.Ports[0], timeout)
	if err == nil {
		return alive, nil
	}

	// Raw probe failed (e.g. no privileges for the raw socket) —
	// degrade to TCP Connect rather than fail the liveness check
	// outright.
	delegate := NewTcpConnectProber(p.Ports)
	res, err := delegate.Probe(ctx, ip, timeout)
	if err != nil {
		return false, err
	}
	return res.Alive, nil
}

func (p *TcpSynProber) probeRaw(ctx context.Context, ip string, port int, timeout time.Duration) (bool, error) {
	dstIP := net.ParseIP(ip)
	if dstIP == nil || dstIP.To4() == nil {
		return false, fmt.Errorf("tcp syn prober: only ipv4 targets supported, got %q", ip)
	}

	srcIP, err := localSourceIP(dstIP)
	if err != nil {
		return false, err
	}

	sock, err := netraw.NewRawSocket(syscall.IPPROTO_TCP)
	if err != nil {
		return false, err
	}
	defer sock.Close()

	srcPort := 40000 + rand.Intn(20000)
	seq := rand.Uint32()

	tcpHeader, err := netraw.BuildTCPHeaderWithChecksum(srcIP, dstIP, srcPort, port, seq, 0, tcpFlagSYN, 65535, 0, nil)
	if err != nil {
		return false, err
	}
	packet, err := netraw.BuildIPv4Packet(srcIP, dstIP, syscall.IPPROTO_TCP, tcpHeader)
	if err != nil {
		return false, err
	}

	if err := sock.Send(dstIP, packet); err != nil {
		return false, err
	}

	deadline := time.Now().Add(timeout)
	buf := make([]byte, 1500)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		n, from, err := sock.Receive(buf, remaining)
		if err != nil {
			continue // read timeout or transient error, keep waiting until deadline
		}
		if !from.Equal(dstIP) {
			continue
		}
		frame, err := netraw.ParseFrame(buf[:n])
		if err != nil || frame.Kind != netraw.L4TCP {
			continue
		}
		if frame.TCP.SrcPort != port || frame.TCP.DstPort != srcPort {
			continue
		}
		// any SYN|ACK or RST from the target means it is alive,
		// regardless of the probed port's own state.
		if frame.TCP.Flags&(tcpFlagSYN|tcpFlagACK) == (tcpFlagSYN | tcpFlagACK) {
			return true, nil
		}
		if frame.TCP.Flags&tcpFlagRST != 0 {
			return true, nil
		}
	}

	return false, nil
}

const (
	tcpFlagFIN = 0x01
	tcpFlagSYN = 0x02
	tcpFlagRST = 0x04
	tcpFlagACK = 0x10
)

// localSourceIP discovers the local address the kernel would route
// through to reach dst, without sending any UDP traffic (the dial is
// never written to).
func localSourceIP(dst net.IP) (net.IP, error) {
	conn, err := net.Dial("udp4", net.JoinHostPort(dst.String(), "9"))
	if err != nil {
		return nil, fmt.Errorf("tcp syn prober: resolve local source ip: %w", err)
	}
	defer conn.Close()
	local := conn.LocalAddr().(*net.UDPAddr)
	return local.IP, nil
}
