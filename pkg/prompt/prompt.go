// Package prompt holds the instruction templates sent to the AI backend.
// Defaults target a Hinglish-speaking assistant persona; any field can be
// overridden from a YAML file so the persona is tunable without a rebuild.
package prompt

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

type Set struct {
	// System is prepended to every text generation call.
	System string `yaml:"system"`

	// DescribeImage asks the vision model for a one-sentence description.
	DescribeImage string `yaml:"describe_image"`

	// CompareObjects asks whether two descriptions refer to the same
	// object. The model must answer YES or NO only.
	CompareObjects string `yaml:"compare_objects"`

	// ExtractName pulls a proper name out of a free-form message, or the
	// sentinel "Unknown" when there is none.
	ExtractName string `yaml:"extract_name"`

	// AudioGeneric answers a voice note with no document context.
	AudioGeneric string `yaml:"audio_generic"`

	// AudioWithDocument answers a voice note grounded in document text.
	AudioWithDocument string `yaml:"audio_with_document"`

	// ExtractDocument pulls the full text out of an uploaded document.
	ExtractDocument string `yaml:"extract_document"`

	// SummarizeDocument produces the short summary sent right after an
	// upload.
	SummarizeDocument string `yaml:"summarize_document"`

	// DocumentQA answers a question grounded in document text.
	DocumentQA string `yaml:"document_qa"`

	// Chat answers general conversation, optionally enriched with memory
	// tags and web search results.
	Chat string `yaml:"chat"`
}

// Default returns the built-in prompt set.
func Default() *Set {
	return &Set{
		System: "You are ThirdEye AI, a WhatsApp assistant. Reply in the same language as the user. Keep replies short and friendly.",

		DescribeImage: "Describe this image in one sentence. Identify the main object.",

		CompareObjects: "Compare these two descriptions:\n1. %q\n2. %q\nDo they describe the same object? Answer YES or NO only.",

		ExtractName: "Extract ONLY the name from this message: %q. If there is no name, answer exactly: Unknown",

		AudioGeneric: "Listen to this audio message. Reply naturally in the same language the speaker uses. Keep it short.",

		AudioWithDocument: "You have the following document:\n---\n%s\n---\nThe user sent an audio message. Listen to it and answer using the document above. If the audio is not about the document, answer normally. Keep it short.",

		ExtractDocument: "Extract the full text content of this document. Output only the text, page by page, with no commentary.",

		SummarizeDocument: "Summarize this document concisely:\n\n%s",

		DocumentQA: "Context from an uploaded document:\n---\n%s\n---\n\nUser question: %s\n\nAnswer based on the document. If the question is unrelated, answer normally.",

		Chat: "Known items from the user's photo memory: %s\nWeb search context: %s\nUser: %s",
	}
}

// Load reads a YAML prompt file and overlays it on the defaults. Empty
// fields in the file keep their default value.
func Load(path string) (*Set, error) {
	set := Default()
	if path == "" {
		return set, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read prompt file", goerr.V("path", path))
	}

	var override Set
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, goerr.Wrap(err, "failed to parse prompt file", goerr.V("path", path))
	}

	merge(set, &override)
	return set, nil
}

func merge(base, override *Set) {
	fields := []struct {
		dst *string
		src string
	}{
		{&base.System, override.System},
		{&base.DescribeImage, override.DescribeImage},
		{&base.CompareObjects, override.CompareObjects},
		{&base.ExtractName, override.ExtractName},
		{&base.AudioGeneric, override.AudioGeneric},
		{&base.AudioWithDocument, override.AudioWithDocument},
		{&base.ExtractDocument, override.ExtractDocument},
		{&base.SummarizeDocument, override.SummarizeDocument},
		{&base.DocumentQA, override.DocumentQA},
		{&base.Chat, override.Chat},
	}
	for _, f := range fields {
		if f.src != "" {
			*f.dst = f.src
		}
	}
}
