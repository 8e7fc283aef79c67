// Package answer turns a formatted workspace snapshot and a user
// question into a Gemini answer. The engine never returns an error to
// its callers: model failures are folded into a readable message so
// chat surfaces can always render something.
package answer

import "fmt"

// promptTemplate is the full instruction block sent to the model. The
// two %s verbs receive the snapshot text and the user question.
const promptTemplate = `You are an AI assistant analyzing data from a Coda document.
Here is the data from the Coda document:

%s

Please analyze this data and answer the following question:
%s

Instructions:
1. Be specific and accurate in your answer
2. Reference actual data points from the tables when possible
3. If the data doesn't contain information to answer the question, say so
4. Provide insights based on the available data
5. Keep your response clear and concise
6. Format the response in a readable way without using markdown symbols like *

Answer:`

// Prompt renders the model prompt for one question over one snapshot.
// It performs no normalization: context and question are embedded verbatim.
func Prompt(contextText, question string) string {
	return fmt.Sprintf(promptTemplate, contextText, question)
}
