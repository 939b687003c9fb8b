// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the lobby event stream. These provide
// more specific reasons for closure than standard codes.
const (
	BadSubprotocolError   = 3000 // Client connected with an unsupported subprotocol.
	InvalidAuthTokenError = 3001 // Provided auth token was invalid or expired.
	InvalidLobbyIDError   = 3003 // Target lobby ID in the WS URL does not exist or is invalid.
	NotAMemberError       = 3004 // Caller is not a participant of the lobby.
)
