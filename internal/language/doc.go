// Package language maps requested language names to ISO 639-1 codes for the
// transcription engine.
package language
