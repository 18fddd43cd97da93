package services

import "errors"

// Failure classes the bot and API layers branch on. Lower layers wrap
// their causes; callers match these with errors.Is.
var (
	// ErrEmptyContext means the chat buffer held no messages to summarize.
	ErrEmptyContext = errors.New("no messages to summarize")

	// ErrSummarizationUnavailable means the LLM call failed or timed out.
	ErrSummarizationUnavailable = errors.New("summarization unavailable")

	// ErrEmptyResult means the model replied with no usable text.
	ErrEmptyResult = errors.New("model returned an empty summary")

	// ErrStoreUnavailable means a summary store operation failed.
	ErrStoreUnavailable = errors.New("summary store unavailable")

	// ErrSummaryNotFound means no stored summary matches the given id.
	ErrSummaryNotFound = errors.New("summary not found")
)
