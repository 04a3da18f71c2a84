package model

import "fmt"

// IPProtocol is the IPv4 protocol number.
type IPProtocol uint8

const (
	ProtoICMP    IPProtocol = 1
	ProtoTCP     IPProtocol = 6
	ProtoUDP     IPProtocol = 17
	ProtoOSPF    IPProtocol = 89
	ProtoUnknown IPProtocol = 255
)

func (p IPProtocol) String() string {
	switch p {
	case ProtoICMP:
		return "ICMP"
	case ProtoTCP:
		return "TCP"
	case ProtoUDP:
		return "UDP"
	case ProtoOSPF:
		return "OSPF"
	}
	return "Unknown"
}

// ICMPType is the ICMP message type.
type ICMPType uint8

const (
	ICMPEchoReply              ICMPType = 0
	ICMPDestinationUnreachable ICMPType = 3
	ICMPEchoRequest            ICMPType = 8
	ICMPTimeExceeded           ICMPType = 11
)

func (t ICMPType) String() string {
	switch t {
	case ICMPEchoReply:
		return "EchoReply"
	case ICMPDestinationUnreachable:
		return "DestinationUnreachable"
	case ICMPEchoRequest:
		return "EchoRequest"
	case ICMPTimeExceeded:
		return "TimeExceeded"
	}
	return fmt.Sprintf("ICMPType(%d)", uint8(t))
}

// Payload is the body of a Packet: *ICMPMessage or RawPayload.
type Payload interface {
	payloadKind() string
}

// ICMPMessage is an ICMP payload.
type ICMPMessage struct {
	Type     ICMPType
	Code     uint8
	ID       uint16
	Sequence uint16
	Data     string
}

func (*ICMPMessage) payloadKind() string { return "icmp" }

// RawPayload carries opaque data for protocols without a typed payload.
type RawPayload string

func (RawPayload) payloadKind() string { return "raw" }

// Defaults used for simulated echo requests.
const (
	DefaultTTL    = 64
	PingProcessID = 1
	PingData      = "NetSimPingData"
	PingSourceMAC = "00:00:00:00:00:01"
	BroadcastMAC  = "FF:FF:FF:FF:FF:FF"
)

// Packet is a simplified L2/L3 frame.
type Packet struct {
	SrcMAC   string
	DstMAC   string
	VLANID   *int
	SrcIP    string
	DstIP    string
	TTL      uint8
	Protocol IPProtocol
	Payload  Payload
}

// NewICMPEcho builds an echo request.
func NewICMPEcho(srcMAC, dstMAC, srcIP, dstIP string, seq uint16) *Packet {
	return &Packet{
		SrcMAC:   srcMAC,
		DstMAC:   dstMAC,
		SrcIP:    srcIP,
		DstIP:    dstIP,
		TTL:      DefaultTTL,
		Protocol: ProtoICMP,
		Payload: &ICMPMessage{
			Type:     ICMPEchoRequest,
			ID:       PingProcessID,
			Sequence: seq,
			Data:     PingData,
		},
	}
}

// ICMP returns the ICMP payload, or nil.
func (p *Packet) ICMP() *ICMPMessage {
	m, _ := p.Payload.(*ICMPMessage)
	return m
}

// Reply returns a copy addressed back to the sender. TTL and payload are
// carried over unchanged.
func (p *Packet) Reply() *Packet {
	r := *p
	r.SrcIP, r.DstIP = p.DstIP, p.SrcIP
	return &r
}
