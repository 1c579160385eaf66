package summarize

import "fmt"

const promptTemplate = `You are an AI that creates concise, structured summaries of meetings and conversations.
Extract the key points and important information from the transcript provided.
Organize the summary into clear sections with bullet points for easy readability.
Focus on action items, decisions made, and important discussions.
Do not include unnecessary details or pleasantries.

After the summary, add a line containing only "Titles:" followed by exactly 3
different title suggestions for this conversation, numbered 1 to 3, one per
line, with no additional explanation. Each title should be short (under 8
words) but descriptive enough to distinguish this conversation from others.

Here is the transcript:

%s`

// buildPrompt renders the fixed prompt template for one transcript.
func buildPrompt(transcriptText string) string {
	return fmt.Sprintf(promptTemplate, transcriptText)
}
