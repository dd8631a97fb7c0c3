package model

import "strings"

// MediaKind classifies an inbound attachment by its content type.
type MediaKind string

const (
	MediaKindImage       MediaKind = "image"
	MediaKindAudio       MediaKind = "audio"
	MediaKindDocument    MediaKind = "document"
	MediaKindUnsupported MediaKind = "unsupported"
)

// KindOfContentType maps a provider content type to a MediaKind.
func KindOfContentType(contentType string) MediaKind {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return MediaKindImage
	case strings.HasPrefix(contentType, "audio/"):
		return MediaKindAudio
	case contentType == "application/pdf":
		return MediaKindDocument
	default:
		return MediaKindUnsupported
	}
}

// Media describes a single inbound attachment hosted by the provider.
type Media struct {
	Kind        MediaKind
	ContentType string
	URL         string
}

// InboundMessage is one webhook delivery from the messaging provider.
type InboundMessage struct {
	From  ConversationID
	Body  string
	Media *Media

	// BaseURL is the externally reachable scheme+host of this service,
	// used to build links to self-hosted media artifacts.
	BaseURL string
}

// ReplyPart is a single outbound message: text, a media link, or both.
type ReplyPart struct {
	Body     string
	MediaURL string
}

// Reply is the ordered set of message parts returned for one turn.
type Reply struct {
	Parts []ReplyPart
}

// Text appends a text-only part.
func (r *Reply) Text(body string) *Reply {
	r.Parts = append(r.Parts, ReplyPart{Body: body})
	return r
}

// TextWithMedia appends a part carrying both text and a media link.
func (r *Reply) TextWithMedia(body, mediaURL string) *Reply {
	r.Parts = append(r.Parts, ReplyPart{Body: body, MediaURL: mediaURL})
	return r
}

// NewReply creates a reply with a single text part.
func NewReply(body string) *Reply {
	return (&Reply{}).Text(body)
}
