package generator

import (
	"fmt"

	"github.com/shuddl/quizlaw/models"
)

const promptTemplate = `You are an expert legal exam writer specializing in creating high-quality multiple-choice questions for bar exam preparation.

I need you to create %d challenging but fair multiple-choice questions testing knowledge and application of the following legal section:

SECTION NUMBER: %s
SECTION TITLE: %s

SECTION TEXT:
%s

For each question:
1. Test understanding of key legal concepts, definitions, or applications from this specific section
2. Create 4 plausible answer options labeled A, B, C, and D
3. Ensure only ONE option is clearly correct
4. Make incorrect options (distractors) plausible but clearly wrong upon careful reading of the section
5. Provide a clear explanation that specifically cites relevant text from the section

FORMAT YOUR RESPONSE AS A JSON ARRAY OF OBJECTS with this exact structure:
[
  {
    "question_text": "The question stem goes here?",
    "options": {
      "A": "First option",
      "B": "Second option",
      "C": "Third option",
      "D": "Fourth option"
    },
    "correct_answer": "B",
    "explanation": "Explanation of why B is correct, citing the section text."
  }
]

IMPORTANT GUIDELINES:
- Ensure each question is self-contained and doesn't require additional context
- Make questions challenging but fair
- Distractors should seem plausible but be clearly incorrect based on the section text
- Don't include anything outside this JSON format in your response
- Provide well-reasoned explanations citing specific language from the section text`

const strictSuffix = `

STRICT MODE: Your previous response failed validation. Respond with ONLY the JSON array described above. Every question must use consecutive option labels starting at "A", include a correct_answer that exactly matches one of its option labels, and provide a non-empty explanation.`

// BuildPrompt renders the MCQ generation prompt for one section.
func BuildPrompt(section models.LegalSection, numQuestions int) string {
	return fmt.Sprintf(promptTemplate, numQuestions, section.SectionNumber, section.SectionTitle, section.SectionText)
}
