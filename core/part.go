package core

// Part represents a polymorphic segment of message content. Concrete part
// types implement the unexported isPart marker enabling a closed set.
type Part interface{ isPart() }

// MediaKind names a media input capability a part may require from a model.
type MediaKind string

// Media kinds a bound model may or may not accept.
const (
	MediaImage    MediaKind = "image"
	MediaAudio    MediaKind = "audio"
	MediaVideo    MediaKind = "video"
	MediaDocument MediaKind = "document"
)

// TextPart is a plain text content segment.
type TextPart struct {
	Text string `json:"text"`
}

func (TextPart) isPart() {}

// MediaPart references image, audio, video or document content, either
// inlined as base64 bytes or via an external URI.
type MediaPart struct {
	Kind     MediaKind `json:"kind"`
	MimeType string    `json:"mime_type,omitempty"`
	Data     string    `json:"data,omitempty"` // base64 encoded contents (if inlined)
	URI      string    `json:"uri,omitempty"`  // external retrieval URI (if not inlined)
}

func (MediaPart) isPart() {}

// Text concatenates all text parts in order. Convenience for callers that
// only care about the textual content of a message.
func Text(parts []Part) string {
	var out string
	for _, p := range parts {
		if tp, ok := p.(TextPart); ok {
			out += tp.Text
		}
	}
	return out
}
