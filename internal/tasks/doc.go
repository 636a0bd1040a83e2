// Package tasks turns user intents into player calls and short, displayable outcomes.
//
// # Commands
//
// [Commands] wraps a [services.Player] with the behavior shared by the CLI and the TUI:
//
//  1. Playback intents (toggle, next, previous, volume, play) first verify the user session.
//  2. Next and previous wait for the player to settle, then read the new track so the
//     outcome can name it. A failed read falls back to a generic message.
//  3. Search needs no user session; the player obtains an app token itself.
//
// # Outcomes
//
// Each intent yields an [Outcome] (title, message, pre or post action snapshot).
// [Failure] turns an error into the outcome shown for it, e.g. "No Active Device".
//
// # Progress Reporting
//
// An optional progress channel receives a [ProgressUpdate] per phase. Sends never block.
package tasks
