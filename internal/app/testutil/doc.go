// Package testutil provides shared test fixtures and mock implementations
// for the pipeline packages: synthetic waveforms that exercise the silence
// detector, and configurable transcriber, summarizer and DAO mocks.
package testutil
