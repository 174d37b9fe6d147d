package auth

import "github.com/JaimeStill/studybuddy/pkg/openapi"

type spec struct {
	Login  *openapi.Operation
	Logout *openapi.Operation
	Me     *openapi.Operation
}

var Spec = spec{
	Login: &openapi.Operation{
		Summary:     "Log in",
		Description: "Exchange credentials for a session token. The token is also set as an HTTP-only cookie.",
		RequestBody: openapi.RequestBodyJSON("LoginRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Session created", "Session"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
		},
	},
	Logout: &openapi.Operation{
		Summary:     "Log out",
		Description: "Revoke the current session and clear the cookie",
		Responses: map[int]*openapi.Response{
			204: {Description: "Session revoked"},
		},
	},
	Me: openapi.Secured(&openapi.Operation{
		Summary:     "Current identity",
		Description: "Return the identity bound to the session token",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Identity", "Identity"),
			401: openapi.ResponseRef("Unauthorized"),
		},
	}),
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"LoginRequest": {
			Type:     "object",
			Required: []string{"email", "password"},
			Properties: map[string]*openapi.Schema{
				"email":    {Type: "string", Format: "email"},
				"password": {Type: "string", Format: "password"},
			},
		},
		"Session": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"token":      {Type: "string"},
				"user_id":    {Type: "string", Format: "uuid"},
				"expires_at": {Type: "string", Format: "date-time"},
			},
		},
		"Identity": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"user_id": {Type: "string", Format: "uuid"},
				"name":    {Type: "string"},
				"email":   {Type: "string", Format: "email"},
			},
		},
	}
}
