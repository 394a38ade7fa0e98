// Package fieldwork bridges tool-calling LLM backends to an MCP tool server
// that exposes survey-platform operations.
//
// The root package defines the conversation data model shared by every other
// package: [Message], [Tool], [ToolCall], [ToolResult], the [ChatProvider]
// interface implemented by the backend adapters, and the session error
// taxonomy.
//
// The interesting work happens in the subpackages:
//
//   - [github.com/spetersoncode/fieldwork/provider/google] (and the openai and
//     anthropic siblings): adapters from the conversation model to the native
//     SDK of each backend, including the JSON Schema translation the Gemini
//     API requires for function declarations.
//   - [github.com/spetersoncode/fieldwork/mcp]: the tool session. It owns the
//     connection to the MCP server, performs the initialize handshake, lists
//     and caches the available tools, and dispatches tool calls.
//   - [github.com/spetersoncode/fieldwork/agent]: the orchestration loop that
//     alternates model generation and tool dispatch until the model produces
//     a final answer or the round budget runs out.
//   - [github.com/spetersoncode/fieldwork/tool]: a registry of locally
//     implemented tools, used to build the MCP server side.
//
// # Basic Usage
//
//	provider, err := google.New(ctx, os.Getenv("GOOGLE_API_KEY"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	session, err := mcp.NewSession("./fieldwork-server", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	orch := agent.New(provider, session)
//	answer, err := orch.Chat(ctx, "Launch my draft study and report its status")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(answer)
package fieldwork
