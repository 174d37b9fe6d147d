package users

import "github.com/JaimeStill/studybuddy/pkg/openapi"

type spec struct {
	Signup *openapi.Operation
}

var Spec = spec{
	Signup: &openapi.Operation{
		Summary:     "Sign up",
		Description: "Create an account. The password is stored as a bcrypt hash.",
		RequestBody: openapi.RequestBodyJSON("SignupCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Account created", "User"),
			400: openapi.ResponseJSON("Invalid input", "ValidationError"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"User": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "string", Format: "uuid"},
				"email":      {Type: "string", Format: "email"},
				"name":       {Type: "string"},
				"created_at": {Type: "string", Format: "date-time"},
			},
		},
		"SignupCommand": {
			Type:     "object",
			Required: []string{"name", "email", "password"},
			Properties: map[string]*openapi.Schema{
				"name":     {Type: "string", Example: "Ada Lovelace"},
				"email":    {Type: "string", Format: "email", Example: "ada@example.com"},
				"password": {Type: "string", Format: "password"},
			},
		},
		"ValidationError": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"error": {Type: "string"},
				"fields": {
					Type: "array",
					Items: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"field":   {Type: "string"},
							"message": {Type: "string"},
						},
					},
				},
			},
		},
	}
}
