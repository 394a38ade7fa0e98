// Package mcp provides MCP (Model Context Protocol) integration for
// fieldwork.
//
// The package has two halves:
//
//   - [Session]: the client side. A Session owns the channel to one MCP tool
//     host, performs the initialize handshake, lists and caches the
//     available tools once, and dispatches tool calls. Exactly one Session
//     exists per orchestration run, and no two Sessions share a channel.
//   - [NewServer] / [ServeStdio]: the server side. They expose a fieldwork
//     [tool.Registry] as an MCP server so the tools can be discovered and
//     called by any MCP client, including this package's own Session.
//
// # Consuming an MCP tool host
//
//	session, err := mcp.NewSession("./fieldwork-server", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	if err := session.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	tools, _ := session.Tools()
//
// # Exposing tools as an MCP server
//
//	registry := tool.NewRegistry().Add(
//	    tool.WithHandler("echo", "Echo back the input", schema, echoHandler),
//	)
//	if err := mcp.ServeStdio(registry); err != nil {
//	    log.Fatal(err)
//	}
package mcp
