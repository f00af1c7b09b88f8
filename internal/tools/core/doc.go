// Package core provides the homelab file-operation tools exposed through
// the mcp-serve surface: reading, writing, editing, listing, and deleting
// files on the host the daemon runs on.
//
// Tools:
//   - read_file: Read file contents
//   - write_file: Write content to a file
//   - edit_file: Edit file with replacements
//   - list_files: List directory contents
//   - delete_file: Delete a file
package core
