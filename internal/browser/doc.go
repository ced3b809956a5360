// Package browser implements stream discovery by driving a headless Chrome
// session over the DevTools protocol.
//
// The Sniffer loads the target page with a spoofed desktop identity,
// best-effort clicks consent dialogs and play buttons, dwells while the
// page's player issues its manifest and segment requests, and sweeps the
// page for lazily loaded players by scrolling until the document height
// reaches a fixed point. Every network request and response URL observed
// during the session is classified and deduplicated into a discovery set
// that is returned once the browser has shut down.
package browser
