package ingestion

import "github.com/JaimeStill/studybuddy/pkg/openapi"

type spec struct {
	Upload *openapi.Operation
}

var Spec = spec{
	Upload: openapi.Secured(&openapi.Operation{
		Summary: "Upload document",
		Description: "Upload a PDF. The text is extracted, chunked, and embedded before anything is stored; " +
			"the document is returned once every chunk is searchable.",
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"multipart/form-data": {
					Schema: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"file": {Type: "string", Format: "binary", Description: "PDF file"},
						},
						Required: []string{"file"},
					},
				},
			},
		},
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Document ingested", "UploadResponse"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			413: {Description: "File too large"},
			422: {Description: "Document could not be processed or contained no text"},
			503: openapi.ResponseRef("Unavailable"),
		},
	}),
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"UploadResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"document": openapi.SchemaRef("Document"),
				"chunks":   {Type: "integer", Description: "Number of embedded chunks"},
				"message":  {Type: "string"},
			},
		},
	}
}
