package hub

// MessageType distinguishes the two proctoring streams a hub can carry.
type MessageType int

const (
	// UpdateMessage is a JSON-encoded monitoring update (gaze_update,
	// alert, session_reset) on the status stream.
	UpdateMessage MessageType = iota
	// FrameMessage is a raw JPEG camera frame on the camera stream.
	FrameMessage
)

// Message is one payload queued for broadcast to viewers.
type Message struct {
	Type MessageType
	Data []byte
}

// NewUpdate wraps pre-encoded JSON for the status stream.
func NewUpdate(data []byte) Message {
	return Message{Type: UpdateMessage, Data: data}
}

// NewFrame wraps a JPEG camera frame.
func NewFrame(jpeg []byte) Message {
	return Message{Type: FrameMessage, Data: jpeg}
}
