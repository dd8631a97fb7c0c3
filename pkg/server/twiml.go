package server

import (
	"encoding/xml"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/thirdeye/pkg/model"
)

// TwiML reply envelope: a <Response> holding one <Message> per reply
// part, each with an optional <Body> and <Media>.
type twimlResponse struct {
	XMLName  xml.Name `xml:"Response"`
	Messages []twimlMessage
}

type twimlMessage struct {
	XMLName xml.Name `xml:"Message"`
	Body    string   `xml:"Body,omitempty"`
	Media   string   `xml:"Media,omitempty"`
}

// renderTwiML serializes a reply into the provider's XML envelope.
func renderTwiML(reply *model.Reply) ([]byte, error) {
	envelope := twimlResponse{}
	for _, part := range reply.Parts {
		envelope.Messages = append(envelope.Messages, twimlMessage{
			Body:  part.Body,
			Media: part.MediaURL,
		})
	}

	body, err := xml.Marshal(envelope)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal TwiML response")
	}

	return append([]byte(xml.Header), body...), nil
}
