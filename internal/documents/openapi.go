package documents

import "github.com/JaimeStill/studybuddy/pkg/openapi"

type spec struct {
	List   *openapi.Operation
	Find   *openapi.Operation
	Delete *openapi.Operation
}

var Spec = spec{
	List: openapi.Secured(&openapi.Operation{
		Summary:     "List documents",
		Description: "List the caller's documents, newest first",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Items per page", false),
			openapi.QueryParam("search", "string", "Search in name", false),
			openapi.QueryParam("sort", "string", "Comma-separated fields, '-' prefix for descending", false),
			openapi.QueryParam("name", "string", "Filter by name (contains)", false),
			openapi.QueryParam("status", "string", "Filter by status", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Documents list", "DocumentPageResult"),
			401: openapi.ResponseRef("Unauthorized"),
		},
	}),
	Find: openapi.Secured(&openapi.Operation{
		Summary:     "Find document",
		Description: "Find one of the caller's documents by ID",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Document ID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Document details", "Document"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
		},
	}),
	Delete: openapi.Secured(&openapi.Operation{
		Summary:     "Delete document",
		Description: "Delete a document, its chunks, and its stored file",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Document ID"),
		},
		Responses: map[int]*openapi.Response{
			204: {Description: "Document deleted"},
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
		},
	}),
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Document": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"user_id":     {Type: "string", Format: "uuid"},
				"name":        {Type: "string", Description: "Original filename"},
				"storage_key": {Type: "string", Description: "Blob storage key"},
				"url":         {Type: "string", Description: "Public blob URL"},
				"mime_type":   {Type: "string"},
				"size_bytes":  {Type: "integer", Format: "int64"},
				"page_count":  {Type: "integer"},
				"status":      {Type: "string", Enum: []string{"pending", "processing", "completed", "failed"}},
				"created_at":  {Type: "string", Format: "date-time"},
				"updated_at":  {Type: "string", Format: "date-time"},
			},
		},
		"DocumentPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Document")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
