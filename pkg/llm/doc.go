// Package llm is a thin client for OpenAI-compatible Chat Completions
// backends. The default deployment targets Groq, but any backend that
// speaks /v1/chat/completions works.
package llm
