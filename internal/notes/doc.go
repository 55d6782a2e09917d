// Package notes holds the in-memory note store: an ordered list of short
// text notes, newest first, with sequential ids. The store owns all note
// state; HTTP and MCP front ends receive a *Store and never touch the list
// directly.
package notes
