// Package api is the transport layer for the document-chat service REST API.
//
// # Overview
//
// Every call is a single, synchronous HTTP request against
// {base_url}/api/{endpoint}. Callers pass endpoints without the /api
// segment; it is added when missing:
//
//	client.Get(ctx, "v1/workspaces", nil)      // GET {base}/api/v1/workspaces
//	client.Get(ctx, "/api/v1/workspaces", nil) // same URL
//
// # Authentication
//
// When Config.APIKey is set every request carries
// "Authorization: Bearer <key>". The key is never logged.
//
// # Error Handling
//
// All failures are returned as *Error and match ErrTransport:
//   - non-2xx status: StatusCode and raw Body are set
//   - network failure: StatusCode is 0 and Err holds the cause
//   - undecodable body: StatusCode, Body and the decode error are set
//
// There are no retries.
//
// # Streaming
//
// StreamPost returns a Stream that yields one JSON object per non-blank
// line. Lines prefixed with "data: " are decoded after the prefix; other
// lines are decoded as-is, and a line that is not JSON yields
// {"error": "Failed to parse response line"}.
package api
