package simulation

import (
	"container/heap"

	"github.com/newtron-network/netsim/pkg/model"
)

// Event is something that happens at a point in simulated time:
// a PacketArrival or a TimerExpiry.
type Event interface {
	isEvent()
}

// PacketArrival delivers a packet to a device port.
type PacketArrival struct {
	ToDeviceID  string
	IngressPort string
	Packet      *model.Packet
}

// TimerExpiry fires a named device timer.
type TimerExpiry struct {
	DeviceID string
	TimerID  string
}

func (PacketArrival) isEvent() {}
func (TimerExpiry) isEvent()   {}

// scheduled is a queued event. seq breaks ties between events due at the
// same time so they run in scheduling order.
type scheduled struct {
	time  uint64
	seq   uint64
	event Event
}

// eventQueue is a min-heap ordered by (time, seq).
type eventQueue []*scheduled

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].time != q[j].time {
		return q[i].time < q[j].time
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) { *q = append(*q, x.(*scheduled)) }

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

var _ heap.Interface = (*eventQueue)(nil)
