// Package agent provides an autonomous tool-calling orchestration loop.
//
// An Orchestrator pairs a ChatProvider with a ToolSession and drives
// multi-round conversations: the model requests tool calls, the
// orchestrator dispatches them to the session, feeds the results back,
// and repeats until the model produces a final text answer or the round
// budget is exhausted.
//
// Basic usage:
//
//	session, err := mcp.NewSession("fieldwork-server", os.Environ())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer session.Close()
//
//	orch := agent.New(provider, session)
//	answer, err := orch.Chat(ctx, "List my draft studies")
//
// Chat absorbs recoverable failures into its string result: model
// timeouts, backend errors, and round exhaustion all produce
// descriptive text rather than an error. Errors are reserved for
// conditions the caller must handle, such as a session that cannot be
// established or a transport that died mid-conversation.
package agent
