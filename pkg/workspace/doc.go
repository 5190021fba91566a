// Package workspace manages workspaces on the document-chat service.
//
// A Config is mapped to the service's wire shape by ToWire and to the
// user-facing definition shape by ToExternal; FromExternal validates and
// applies defaults on the way in. A Workspace pairs a Config with the
// Identity the service assigns on creation, and a Manager keeps the
// workspaces of one service keyed by slug.
//
//	manager := workspace.NewManager(client, workspace.WithLogger(logger))
//	ws, err := manager.CreateWorkspaceFromJSON(ctx, []byte(`{
//	  "workspace_name": "Support",
//	  "custom_prompt": "You are a support agent."
//	}`))
//	if err != nil {
//		return err
//	}
//	reply, err := ws.Chat(ctx, "How do I reset my password?")
package workspace
