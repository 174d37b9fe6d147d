package chat

import "github.com/JaimeStill/studybuddy/pkg/openapi"

type spec struct {
	Chat *openapi.Operation
}

var Spec = spec{
	Chat: &openapi.Operation{
		Summary: "Chat with StudyBuddy",
		Description: "Streams a tutor reply as server-sent events. Each frame is " +
			`{"type":"text","text":"..."}; the stream ends with [DONE]. Signed-in users get answers ` +
			"grounded in their uploaded documents. Guests are rate limited and receive shorter replies.",
		RequestBody: openapi.RequestBodyJSON("ChatRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseStream("Reply stream"),
			400: openapi.ResponseRef("BadRequest"),
			429: {Description: "Guest rate limit exceeded"},
			503: openapi.ResponseRef("Unavailable"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"ChatMessage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"role":    {Type: "string", Enum: []string{"user", "assistant"}},
				"content": {Type: "string"},
			},
			Required: []string{"role", "content"},
		},
		"ChatRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"messages": {Type: "array", Items: openapi.SchemaRef("ChatMessage")},
			},
			Required: []string{"messages"},
		},
	}
}
