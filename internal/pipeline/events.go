package pipeline

// EventType discriminates the messages pushed to the client during a run.
type EventType string

const (
	EventStatus       EventType = "status"
	EventTranscript   EventType = "transcript"
	EventSummaryChunk EventType = "summary_chunk"
	EventComplete     EventType = "complete"
	EventError        EventType = "error"
)

// Event is one frame of the processing stream. Status, error and complete
// events carry Message; transcript and summary_chunk events carry Data.
type Event struct {
	Type       EventType `json:"type"`
	Message    string    `json:"message,omitempty"`
	Data       string    `json:"data,omitempty"`
	VideoTitle string    `json:"video_title,omitempty"`
}

func (e Event) Terminal() bool {
	return e.Type == EventComplete || e.Type == EventError
}

func statusEvent(message string) Event {
	return Event{Type: EventStatus, Message: message}
}

func transcriptEvent(text string) Event {
	return Event{Type: EventTranscript, Data: text}
}

func summaryChunkEvent(chunk string) Event {
	return Event{Type: EventSummaryChunk, Data: chunk}
}

func completeEvent(videoTitle, message string) Event {
	return Event{Type: EventComplete, VideoTitle: videoTitle, Message: message}
}

func errorEvent(err error) Event {
	return Event{Type: EventError, Message: err.Error()}
}
