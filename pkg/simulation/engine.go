package simulation

import (
	"container/heap"
	"sync"

	"github.com/newtron-network/netsim/pkg/model"
	"github.com/newtron-network/netsim/pkg/util"
)

// LinkDelay is the simulated one-way latency of a cable, in ticks.
const LinkDelay = 1

// Engine is a discrete-event scheduler with a monotonic logical clock.
//
// Engine has its own lock. Callers that also hold the topology store lock
// must take the store lock first; the engine never acquires it.
type Engine struct {
	mu    sync.Mutex
	now   uint64
	seq   uint64
	queue eventQueue
}

// NewEngine creates an engine at time zero.
func NewEngine() *Engine {
	return &Engine{}
}

// Now returns the current logical time.
func (e *Engine) Now() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now
}

// Pending returns the number of queued events.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Len()
}

// Schedule queues ev to fire delay ticks from now.
func (e *Engine) Schedule(delay uint64, ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scheduleLocked(delay, ev)
}

func (e *Engine) scheduleLocked(delay uint64, ev Event) *scheduled {
	e.seq++
	item := &scheduled{time: e.now + delay, seq: e.seq, event: ev}
	heap.Push(&e.queue, item)
	return item
}

// deliverLocked removes item from the queue and advances the clock to its
// time. Other queued events stay pending.
func (e *Engine) deliverLocked(item *scheduled) {
	for i, q := range e.queue {
		if q == item {
			heap.Remove(&e.queue, i)
			break
		}
	}
	if item.time > e.now {
		e.now = item.time
	}
}

// Step pops the earliest event and advances the clock to its time.
// Returns false when the queue is empty.
func (e *Engine) Step() (Event, uint64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stepLocked()
}

func (e *Engine) stepLocked() (Event, uint64, bool) {
	if e.queue.Len() == 0 {
		return nil, e.now, false
	}
	item := heap.Pop(&e.queue).(*scheduled)
	if item.time > e.now {
		e.now = item.time
	}
	return item.event, item.time, true
}

// RunUntilIdle drains the queue in time order, calling fn for each event,
// and returns the number of events processed. fn runs without the engine
// lock held and may schedule further events.
func (e *Engine) RunUntilIdle(fn func(at uint64, ev Event)) int {
	n := 0
	for {
		ev, at, ok := e.Step()
		if !ok {
			return n
		}
		n++
		if fn != nil {
			fn(at, ev)
		}
	}
}

// ProcessPacketImmediate resolves pkt against topo and, when a reply
// exists, schedules its arrival back at the source and delivers it so the
// clock advances by the round trip. Events queued through Schedule are left
// in place. Returns nil when there is no reply.
func (e *Engine) ProcessPacketImmediate(topo Topology, srcDeviceID string, pkt *model.Packet) *model.Packet {
	e.mu.Lock()
	defer e.mu.Unlock()

	reply, ingress := Resolve(topo, srcDeviceID, pkt)
	if reply == nil {
		util.WithDevice(srcDeviceID).WithField("dst", pkt.DstIP).Debug("No reply")
		return nil
	}

	arrival := e.scheduleLocked(2*LinkDelay, PacketArrival{
		ToDeviceID:  srcDeviceID,
		IngressPort: ingress,
		Packet:      reply,
	})
	e.deliverLocked(arrival)

	util.WithDevice(srcDeviceID).WithField("dst", pkt.DstIP).
		WithField("t", e.now).Debug("Reply delivered")
	return reply
}
