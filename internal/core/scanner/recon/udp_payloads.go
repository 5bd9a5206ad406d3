package recon

import (
	"github.com/gosnmp/gosnmp"
	"github.com/miekg/dns"
)

// UDPPayloadFor returns the port-specific probe payload for a UDP scan
// (spec §4.5): a DNS root query for 53, an SNMP v2c get for 161, an NTP
// v3 client request for 123, a NetBIOS name query for 137, an RPC NULL
// call for 111, and an empty payload for anything else.
func UDPPayloadFor(port int) []byte {
	switch port {
	case 53:
		return dnsRootQueryPayload()
	case 161:
		return snmpV2cGetPayload()
	case 123:
		return ntpV3ClientPayload()
	case 137:
		return netbiosNameQueryPayload()
	case 111:
		return rpcNullCallPayload()
	default:
		return nil
	}
}

// dnsRootQueryPayload builds a query for the root zone's NS records —
// any DNS server, authoritative or not, will answer it.
func dnsRootQueryPayload() []byte {
	m := new(dns.Msg)
	m.SetQuestion(".", dns.TypeNS)
	m.Id = dns.Id()
	m.RecursionDesired = true
	out, err := m.Pack()
	if err != nil {
		return nil
	}
	return out
}

// snmpV2cGetPayload builds a GetRequest for sysDescr (1.3.6.1.2.1.1.1.0)
// under the "public" community, the same probe brute/protocol/snmp.go
// issues over a real socket — here it is only marshaled, not sent,
// because the raw-socket UDP scan owns transmission itself.
func snmpV2cGetPayload() []byte {
	packet := &gosnmp.SnmpPacket{
		Version:   gosnmp.Version2c,
		Community: "public",
		PDUType:   gosnmp.GetRequest,
		RequestID: 1,
		Variables: []gosnmp.SnmpPDU{
			{Name: "1.3.6.1.2.1.1.1.0", Type: gosnmp.Null},
		},
	}
	out, err := packet.MarshalMsg()
	if err != nil {
		return nil
	}
	return out
}

// ntpV3ClientPayload builds a minimal NTPv3 client request: mode=3
// (client), version=3, stratum/poll/precision left zero as an
// unsynchronized client would send.
func ntpV3ClientPayload() []byte {
	buf := make([]byte, 48)
	buf[0] = (3 << 3) | 3 // LI=0, VN=3, Mode=3 (client)
	return buf
}

// netbiosNameQueryPayload builds a NetBIOS Name Service query for the
// wildcard name ("*" padded per RFC 1002 §4.2 first-level encoding),
// requesting NBSTAT (node status).
func netbiosNameQueryPayload() []byte {
	encoded := encodeNetbiosName("*")
	buf := make([]byte, 0, 12+len(encoded)+2+4)
	buf = append(buf, 0x00, 0x00) // transaction ID
	buf = append(buf, 0x00, 0x10) // flags: standard query
	buf = append(buf, 0x00, 0x01) // qdcount=1
	buf = append(buf, 0x00, 0x00) // ancount
	buf = append(buf, 0x00, 0x00) // nscount
	buf = append(buf, 0x00, 0x00) // arcount
	buf = append(buf, encoded...)
	buf = append(buf, 0x00, 0x21) // qtype NBSTAT
	buf = append(buf, 0x00, 0x01) // qclass IN
	return buf
}

// encodeNetbiosName implements the RFC 1002 first-level encoding: each
// nibble of the (space-padded, 16-byte) name is mapped to a letter
// 'A'-'P'.
func encodeNetbiosName(name string) []byte {
	padded := make([]byte, 16)
	copy(padded, name)
	for i := len(name); i < 16; i++ {
		padded[i] = ' '
	}

	out := make([]byte, 0, 34)
	out = append(out, 32) // length byte: 32 encoded bytes follow
	for _, b := range padded {
		out = append(out, 'A'+(b>>4), 'A'+(b&0x0F))
	}
	out = append(out, 0x00) // root label terminator
	return out
}

// rpcNullCallPayload builds a minimal Sun RPC (ONC RPC) NULL call,
// procedure 0 of the portmapper program — any RPC service answers it.
func rpcNullCallPayload() []byte {
	buf := make([]byte, 40)
	// XID left zero; msg type=0 (CALL) at offset 4; rpcvers=2 at offset 8
	be32 := func(off int, v uint32) {
		buf[off] = byte(v >> 24)
		buf[off+1] = byte(v >> 16)
		buf[off+2] = byte(v >> 8)
		buf[off+3] = byte(v)
	}
	be32(4, 0)          // CALL
	be32(8, 2)           // RPC version 2
	be32(12, 100000)     // program: portmapper
	be32(16, 2)          // program version
	be32(20, 0)          // procedure: NULL
	// auth (AUTH_NULL) and verifier (AUTH_NULL) each: flavor(4)+length(4)=0
	return buf
}
