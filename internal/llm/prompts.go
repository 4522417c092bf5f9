package llm

// EnrichmentPrompt takes the Swedish headword.
const EnrichmentPrompt = `You are a Swedish teacher writing flashcard data for English-speaking learners.
Describe the Swedish word "%s".

Respond with ONLY a JSON object in this exact shape:
{
  "word_type": "substantiv | verb | adjektiv | adverb | pronomen | preposition | konjunktion | interjektion | räkneord | fras",
  "gender": "en | ett | empty string when not a noun",
  "meanings": [
    {"english": "short dictionary translation", "context": "optional usage note"}
  ],
  "examples": [
    {"swedish": "natural example sentence using the word", "english": "translation"}
  ],
  "synonyms": ["swedish synonym"],
  "antonyms": ["swedish antonym"],
  "level": "A1 | A2 | B1 | B2 | C1 | C2"
}

RULES:
1. "meanings" MUST contain at least one entry, most common sense first.
2. Translations are standard bilingual dictionary equivalents of 1-4 words.
3. Give 1-3 example sentences. Each must contain the word itself or an inflected form of it.
4. Synonyms and antonyms are single Swedish words in lower case. Use an empty list when none exist.
5. "level" is the CEFR level at which a learner typically meets the word.
6. Do not include any text outside the JSON object.`
