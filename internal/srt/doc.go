// Package srt formats timed transcription segments as SubRip caption files.
package srt
