// Package bridge exposes a link.Link to remote hosts.
//
// A bridge server owns the physical link next to the EMCU. Remote clients
// send Requests as packets over any PacketReadWriter (MQTT, WebSocket or a
// length-prefixed stream) and receive Replies carrying the same sequence.
// The client side implements link.Link, so a Session drives a remote EMCU
// exactly like a local one.
package bridge
