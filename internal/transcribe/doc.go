// Package transcribe wraps the WhisperX CLI as the transcription engine and
// fans a job's audio artifact out across its requested languages.
package transcribe
