//go:build linux

package alive

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"syscall"
	"time"
)

// ArpProber 通过 AF_PACKET 原始套接字发送 ARP Request 探测链路本地主机
// 是否存活。这是该函数此前的 stub 实现的真正版本：构造 Ethernet+ARP 帧，
// 通过绑定到出口网卡的 SOCK_RAW 套接字发送，并等待携带目标 IP 的 ARP Reply。
// 需要 CAP_NET_RAW；没有权限时返回错误而不是假装探测成功。
type ArpProber struct{}

func NewArpProber() *ArpProber {
	return &ArpProber{}
}

const (
	ethTypeARP  = 0x0806
	arpHTypeEth = 1
	arpPTypeIP  = 0x0800
	arpOpRequest = 1
	arpOpReply   = 2
)

func (p *ArpProber) Probe(ctx context.Context, ip string, timeout time.Duration) (bool, error) {
	targetIP := net.ParseIP(ip).To4()
	if targetIP == nil {
		return false, fmt.Errorf("arp prober: only ipv4 targets supported, got %q", ip)
	}

	iface, srcIP, err := outboundInterface(targetIP)
	if err != nil {
		return false, err
	}

	fd, err := syscall.Socket(syscall.AF_PACKET, syscall.SOCK_RAW, htons(ethTypeARP))
	if err != nil {
		return false, fmt.Errorf("arp prober: open AF_PACKET socket: %w (requires CAP_NET_RAW)", err)
	}
	defer syscall.Close(fd)

	addr := &syscall.SockaddrLinklayer{
		Protocol: htons(ethTypeARP),
		Ifindex:  iface.Index,
	}
	if err := syscall.Bind(fd, addr); err != nil {
		return false, fmt.Errorf("arp prober: bind to interface %s: %w", iface.Name, err)
	}

	frame := buildARPRequest(iface.HardwareAddr, srcIP, targetIP)
	if err := syscall.Sendto(fd, frame, 0, addr); err != nil {
		return false, fmt.Errorf("arp prober: sendto: %w", err)
	}

	deadline := time.Now().Add(timeout)
	buf := make([]byte, 128)
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
		tv := syscall.NsecToTimeval(remaining.Nanoseconds())
		if err := syscall.SetsockoptTimeval(fd, syscall.SOL_SOCKET, syscall.SO_RCVTIMEO, &tv); err != nil {
			return false, fmt.Errorf("arp prober: set recv timeout: %w", err)
		}

		n, _, err := syscall.Recvfrom(fd, buf, 0)
		if err != nil {
			continue
		}
		if n < 42 {
			continue
		}
		if binary.BigEndian.Uint16(buf[12:14]) != ethTypeARP {
			continue
		}
		op := binary.BigEndian.Uint16(buf[20:22])
		senderIP := net.IP(buf[28:32])
		if op == arpOpReply && senderIP.Equal(targetIP) {
			return true, nil
		}
	}

	return false, nil
}

// buildARPRequest builds a 42-byte Ethernet(14)+ARP(28) request frame.
func buildARPRequest(srcMAC net.HardwareAddr, srcIP, dstIP net.IP) []byte {
	frame := make([]byte, 42)

	// Ethernet header: broadcast dest, our MAC, ethertype ARP.
	for i := 0; i < 6; i++ {
		frame[i] = 0xFF
	}
	copy(frame[6:12], srcMAC)
	binary.BigEndian.PutUint16(frame[12:14], ethTypeARP)

	arp := frame[14:]
	binary.BigEndian.PutUint16(arp[0:2], arpHTypeEth)
	binary.BigEndian.PutUint16(arp[2:4], arpPTypeIP)
	arp[4] = 6 // hardware address length
	arp[5] = 4 // protocol address length
	binary.BigEndian.PutUint16(arp[6:8], arpOpRequest)
	copy(arp[8:14], srcMAC)
	copy(arp[14:18], srcIP.To4())
	// target MAC left zero for a request
	copy(arp[24:28], dstIP.To4())

	return frame
}

// outboundInterface finds the interface and source IP the kernel would
// use to reach dst, so the ARP request is sent from the right link.
func outboundInterface(dst net.IP) (*net.Interface, net.IP, error) {
	conn, err := net.Dial("udp4", net.JoinHostPort(dst.String(), "9"))
	if err != nil {
		return nil, nil, fmt.Errorf("arp prober: resolve outbound route: %w", err)
	}
	defer conn.Close()
	localAddr := conn.LocalAddr().(*net.UDPAddr)

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, nil, fmt.Errorf("arp prober: list interfaces: %w", err)
	}
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipNet, ok := a.(*net.IPNet)
			if ok && ipNet.IP.Equal(localAddr.IP) {
				ifaceCopy := iface
				return &ifaceCopy, localAddr.IP, nil
			}
		}
	}
	return nil, nil, fmt.Errorf("arp prober: no interface found for local address %s", localAddr.IP)
}

func htons(v uint16) int {
	return int(v<<8 | v>>8)
}
