package websocket

// ClientInMessage is the envelope for messages from a spectator to the server.
type ClientInMessage struct {
	Type          string `json:"type"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// ServerEnvelope is the envelope for messages from server to client.
// Type: "event" | "state" | "error"
type ServerEnvelope struct {
	Type          string                 `json:"type"`
	Event         string                 `json:"event,omitempty"`
	CorrelationID string                 `json:"correlation_id,omitempty"`
	Payload       map[string]interface{} `json:"payload,omitempty"`
}

// Client message types.
const (
	ClientMessageTypeSyncState = "sync_state"
	ClientMessageTypePing      = "ping"
)

// Server event names.
const (
	ServerEventState = "state"
	ServerEventPong  = "pong"
)

// Server envelope types.
const (
	ServerTypeEvent = "event"
	ServerTypeState = "state"
	ServerTypeError = "error"
)

// MaxClientMessageTypeLength limits the "type" field to prevent abuse.
const MaxClientMessageTypeLength = 64

// ValidClientMessageTypes are the only allowed values for ClientInMessage.Type.
var ValidClientMessageTypes = map[string]bool{
	ClientMessageTypeSyncState: true,
	ClientMessageTypePing:      true,
}

// privateEvents are engine events that may carry hidden information and never reach spectators.
var privateEvents = map[string]bool{
	"log_appended": true,
}
