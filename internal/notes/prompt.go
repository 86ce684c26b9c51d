package notes

import "fmt"

const SystemPrompt = "You are a helpful assistant that creates well-structured markdown notes."

const promptTemplate = `Please create a well-structured markdown note from the following transcript.
Include key points, main ideas, and organize the information in a clear, hierarchical format.
Concise (Brief & Direct)
Use appropriate markdown formatting like headers, bullet points, and emphasis where needed.
Only create the note from the given transcript, do not make up any information.

Transcript:
%s
`

// BuildPrompt embeds the transcript verbatim into the note instructions.
func BuildPrompt(transcript string) string {
	return fmt.Sprintf(promptTemplate, transcript)
}
