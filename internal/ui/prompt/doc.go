// Package prompt provides simple interactive prompts.
//
// All prompts render to stderr so stdout stays free for data, and pick
// their color profile from stderr.
//
// Available prompts:
//   - [Confirm]: Yes/No confirmation prompt
//   - [TextInput]: Single-line text input with a pre-filled default
//   - [Select]: Single selection from an annotated list
//   - [MultiSelect]: Fuzzy-filtered multiple selection with preselection
package prompt
