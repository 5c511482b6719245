package channel

// Transport is the outbound half of an untyped bidirectional message
// channel. The inbound half is the owner pumping received frames into
// Receive; the transport itself is assumed best-effort and local.
type Transport interface {
	Send(msg []byte) error
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(msg []byte) error

// Send implements Transport.
func (f TransportFunc) Send(msg []byte) error { return f(msg) }
