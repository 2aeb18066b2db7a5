// Package events broadcasts proxy and interception activity to connected
// UI clients over WebSocket: one hub, many named event types
// (proxy-traffic, proxy-intercept-request, proxy-intercept-response), each
// carrying its own payload shape.
package events
