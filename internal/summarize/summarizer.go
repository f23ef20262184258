package summarize

import "fmt"

// summaryPrompt mirrors the instruction the service has always used for its
// summaries; the transcript is substituted in verbatim.
const summaryPrompt = `Please create a comprehensive summary of the following video transcript.
The summary should be medium to large in length, covering all main points, key insights, and important details discussed in the video.
Make it informative and well-structured with clear sections where appropriate.
Include any important quotes, statistics, or examples mentioned.

Transcript:
%s

Summary:
`

func buildPrompt(transcript string) string {
	return fmt.Sprintf(summaryPrompt, transcript)
}
