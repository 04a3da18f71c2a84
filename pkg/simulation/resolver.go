// Package simulation answers reachability questions over the cable graph
// and keeps a discrete-event clock for simulated packet delivery.
package simulation

import (
	"github.com/newtron-network/netsim/pkg/model"
)

// Topology is the read access the resolver needs. A topology.Tx satisfies
// it, so resolution runs under the caller's store lock.
type Topology interface {
	Device(id string) *model.Device
	Cables() []model.Cable
}

// Resolve checks one-hop reachability for pkt sent from srcDeviceID.
//
// Each source port is checked in order. For a port, the first cable that
// has it as the source endpoint is used; only when there is none is a
// cable with it as the target endpoint considered. The device at the far
// end is scanned for a port whose address equals pkt.DstIP exactly. The
// first match yields a reply with addresses swapped. ingressPort is the
// source-device port the reply arrives on.
//
// No match is a normal outcome and returns (nil, "").
func Resolve(topo Topology, srcDeviceID string, pkt *model.Packet) (reply *model.Packet, ingressPort string) {
	src := topo.Device(srcDeviceID)
	if src == nil {
		return nil, ""
	}
	cables := topo.Cables()

	for _, port := range src.Ports {
		peerID, ok := peerAsSource(cables, srcDeviceID, port.ID)
		if !ok {
			peerID, ok = peerAsTarget(cables, srcDeviceID, port.ID)
		}
		if !ok {
			continue
		}
		if ownsAddress(topo.Device(peerID), pkt.DstIP) {
			return pkt.Reply(), port.ID
		}
	}
	return nil, ""
}

func peerAsSource(cables []model.Cable, deviceID, portID string) (string, bool) {
	for _, c := range cables {
		if c.SourceDeviceID == deviceID && c.SourcePortID == portID {
			return c.TargetDeviceID, true
		}
	}
	return "", false
}

func peerAsTarget(cables []model.Cable, deviceID, portID string) (string, bool) {
	for _, c := range cables {
		if c.TargetDeviceID == deviceID && c.TargetPortID == portID {
			return c.SourceDeviceID, true
		}
	}
	return "", false
}

func ownsAddress(d *model.Device, ip string) bool {
	if d == nil {
		return false
	}
	for _, p := range d.Ports {
		if p.Config.HasIP() && p.Config.IPAddress == ip {
			return true
		}
	}
	return false
}
