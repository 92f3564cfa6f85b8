// Package websocket pushes pipeline progress to subscribed clients.
//
// A Hub owns the set of connected clients and fans out every published
// events.Message to them. Each Client runs a read pump, which only watches
// for close and pong frames, and a write pump that drains its send buffer
// and keeps the connection alive with pings. Clients whose buffer fills up
// are dropped rather than slowing the publisher down.
package websocket
