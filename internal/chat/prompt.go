package chat

import (
	"fmt"

	"github.com/JaimeStill/studybuddy/internal/auth"
)

const guestPrompt = `You are StudyBuddy, a friendly virtual tutor.
The user is not logged in, so politely explain that signing in will unlock:
- Personalised tutoring and chat experience.
- Answers based on their uploaded documents.`

const memberPrompt = `You are StudyBuddy, a helpful virtual tutor for the user named %s.
Use the context below if it is relevant to the user's question.
If no files have been uploaded or the context is not relevant, answer normally.
If the user hasn't uploaded PDFs yet, gently remind them to upload files so you can provide better, personalized tutoring.

--- RAG CONTEXT START ---
%s
--- RAG CONTEXT END ---`

// NoContext stands in for retrieved context when nothing matched.
const NoContext = "No relevant uploaded file content found."

// SystemPrompt builds the system instruction for user. A nil user is a guest,
// for whom ragContext is ignored.
func SystemPrompt(user *auth.Identity, ragContext string) string {
	if user == nil {
		return guestPrompt
	}
	if ragContext == "" {
		ragContext = NoContext
	}
	name := user.Name
	if name == "" {
		name = "Student"
	}
	return fmt.Sprintf(memberPrompt, name, ragContext)
}
