// Package server implements the MCP (Model Context Protocol) server that
// exposes symbol search over stdin/stdout.
//
// The server speaks JSON-RPC 2.0, one message per line: requests arrive on
// stdin, responses leave on stdout, and all logging goes to stderr so the
// protocol stream stays clean.
//
// # Tools
//
// The tool surface covers one search session end to end: inspect a page
// (image_load, image_dimensions, image_sample_color), cut a symbol template
// out of it (image_crop), preview the template's orientation footprints
// (template_rotate), and run the match engine (symbol_search). A shared
// image cache backs all tools, so a page decoded once serves every
// subsequent operation in the session.
//
// # Error Handling
//
// Malformed JSON-RPC requests produce protocol-level errors (-32600 family).
// Tool argument errors produce a -32000 tool execution error. symbol_search
// is the exception: engine failures are returned as the tool's structured
// result with success=false and the error string populated, mirroring the
// engine's own failure contract, so callers always get the same response
// shape.
package server
