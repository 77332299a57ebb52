// Package resource binds logical table names to live remote tables.
//
// The translator core needs three things from a table handle: its q
// symbol (with partition/splay flags), its table name, and an eval
// operation that ships rendered q text to the remote process. Opening
// and authenticating sessions, the wire protocol itself, and response
// deserialization are collaborator concerns behind the Session
// interface; nothing in this repository speaks IPC.
//
// The catalog persists known bindings (URI, table name, layout flags)
// in SQLite so the CLI can resolve kdb:// identifiers between runs.
package resource
