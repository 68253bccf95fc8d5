package websocket

import (
	"context"
	"sync/atomic"

	"murmur/internal/metrics"
)

// Message is an opaque relay payload. Kind carries the websocket frame type
// (text or binary) so the payload is forwarded exactly as it was received.
type Message struct {
	Kind int
	Data []byte
}

// Peer is one registered real-time connection as seen by the hub.
// Send must not block; a failing Send only affects that peer.
type Peer interface {
	ID() string
	Send(msg Message) error
}

// RelayObserver is notified after a message from a registered sender has been
// relayed locally. It runs on the sender's goroutine, outside the hub loop.
type RelayObserver interface {
	OnRelay(senderID string, msg Message)
}

// RelayResult reports the outcome of one fan-out.
type RelayResult struct {
	Delivered int
	Failed    int
	Stale     bool // sender was not registered; nothing was sent
}

type registration struct {
	peer Peer
	done chan struct{}
}

type broadcastRequest struct {
	msg           Message
	exclude       map[string]struct{}
	sender        string
	requireSender bool
	reply         chan RelayResult
}

// Hub maintains the registry of live connections and forwards messages
// between them. All registry access happens on the Run goroutine.
type Hub struct {
	peers map[string]Peer
	count atomic.Int64

	register   chan registration
	unregister chan registration
	broadcast  chan broadcastRequest

	observer RelayObserver
	logger   *WebSocketLogger

	stop    chan struct{}
	stopped atomic.Bool
	done    chan struct{}
}

// NewHub creates a hub. Call Run before using it.
func NewHub(logger *WebSocketLogger) *Hub {
	if logger == nil {
		logger = NewWebSocketLogger()
	}
	return &Hub{
		peers:      make(map[string]Peer),
		register:   make(chan registration, 256),
		unregister: make(chan registration, 256),
		broadcast:  make(chan broadcastRequest, 512),
		logger:     logger,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// SetRelayObserver installs an observer for locally relayed messages.
// Must be called before Run.
func (h *Hub) SetRelayObserver(o RelayObserver) {
	h.observer = o
}

// Run starts the hub's event loop and blocks until ctx is cancelled or Stop is called.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.stop:
			return
		case reg := <-h.register:
			h.addPeer(reg.peer)
			close(reg.done)
		case reg := <-h.unregister:
			h.removePeer(reg.peer)
			close(reg.done)
		case req := <-h.broadcast:
			req.reply <- h.fanOut(req)
		}
	}
}

// Stop terminates the event loop and closes every registered peer.
func (h *Hub) Stop() {
	if h.stopped.CompareAndSwap(false, true) {
		close(h.stop)
	}
	<-h.done
}

// Connect registers a peer. Registering an id twice is a no-op.
func (h *Hub) Connect(peer Peer) {
	h.submit(h.register, peer)
}

// Disconnect removes a peer. Safe to call more than once.
func (h *Hub) Disconnect(peer Peer) {
	h.submit(h.unregister, peer)
}

// Relay forwards msg from the given sender to every other registered peer.
// Messages from a sender that is no longer registered are dropped silently.
func (h *Hub) Relay(from Peer, msg Message) RelayResult {
	result := h.request(broadcastRequest{
		msg:           msg,
		exclude:       map[string]struct{}{from.ID(): {}},
		sender:        from.ID(),
		requireSender: true,
	})
	if result.Stale {
		metrics.RelayStaleMessagesTotal.Inc()
		return result
	}

	metrics.RelayMessagesTotal.WithLabelValues(metrics.SourceLocal).Inc()
	if h.observer != nil {
		h.observer.OnRelay(from.ID(), msg)
	}
	return result
}

// BroadcastExcept delivers msg to every registered peer whose id is not in exclude.
func (h *Hub) BroadcastExcept(msg Message, exclude ...string) RelayResult {
	set := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		set[id] = struct{}{}
	}
	return h.request(broadcastRequest{msg: msg, exclude: set})
}

// Count returns the number of registered peers.
func (h *Hub) Count() int {
	return int(h.count.Load())
}

func (h *Hub) submit(ch chan registration, peer Peer) {
	reg := registration{peer: peer, done: make(chan struct{})}
	select {
	case ch <- reg:
	case <-h.done:
		return
	}
	select {
	case <-reg.done:
	case <-h.done:
	}
}

func (h *Hub) request(req broadcastRequest) RelayResult {
	req.reply = make(chan RelayResult, 1)
	select {
	case h.broadcast <- req:
	case <-h.done:
		return RelayResult{Stale: req.requireSender}
	}
	select {
	case res := <-req.reply:
		return res
	case <-h.done:
		return RelayResult{Stale: req.requireSender}
	}
}

// addPeer adds a peer to the registry (loop only)
func (h *Hub) addPeer(peer Peer) {
	if _, ok := h.peers[peer.ID()]; ok {
		return
	}
	h.peers[peer.ID()] = peer
	h.count.Store(int64(len(h.peers)))

	metrics.RelayConnectedClients.Set(float64(len(h.peers)))
	metrics.RelayConnectionsTotal.WithLabelValues("connect").Inc()
	h.logger.Info("client connected", peer.ID())
}

// removePeer removes a peer from the registry (loop only)
func (h *Hub) removePeer(peer Peer) {
	if _, ok := h.peers[peer.ID()]; !ok {
		return
	}
	delete(h.peers, peer.ID())
	h.count.Store(int64(len(h.peers)))

	metrics.RelayConnectedClients.Set(float64(len(h.peers)))
	metrics.RelayConnectionsTotal.WithLabelValues("disconnect").Inc()
	h.logger.Info("client disconnected", peer.ID())
}

// fanOut performs one broadcast (loop only)
func (h *Hub) fanOut(req broadcastRequest) RelayResult {
	if req.requireSender {
		if _, ok := h.peers[req.sender]; !ok {
			return RelayResult{Stale: true}
		}
	}

	var res RelayResult
	for id, peer := range h.peers {
		if _, skip := req.exclude[id]; skip {
			continue
		}
		if err := peer.Send(req.msg); err != nil {
			res.Failed++
			h.logger.Debug("delivery failed", id, err)
			continue
		}
		res.Delivered++
	}

	metrics.RelayDeliveriesTotal.WithLabelValues("delivered").Add(float64(res.Delivered))
	metrics.RelayDeliveriesTotal.WithLabelValues("failed").Add(float64(res.Failed))
	return res
}

func (h *Hub) closeAll() {
	for id, peer := range h.peers {
		if c, ok := peer.(interface{ Close() error }); ok {
			_ = c.Close()
		}
		delete(h.peers, id)
	}
	h.count.Store(0)
	metrics.RelayConnectedClients.Set(0)
}
