package core

// Operation identifies a single dispatchable filesystem operation. It is the
// currency of the capability registry and of unsupported-operation errors.
type Operation string

const (
	OpWrite           Operation = "write"
	OpRead            Operation = "read"
	OpReadStream      Operation = "read_stream"
	OpWriteStream     Operation = "write_stream"
	OpDelete          Operation = "delete"
	OpMove            Operation = "move"
	OpCopy            Operation = "copy"
	OpCopyBetween     Operation = "copy_between"
	OpFileExists      Operation = "file_exists"
	OpListContents    Operation = "list_contents"
	OpCreateDirectory Operation = "create_directory"
	OpDeleteDirectory Operation = "delete_directory"
	OpClear           Operation = "clear"
	OpSetVisibility   Operation = "set_visibility"
	OpVisibility      Operation = "visibility"
	OpStat            Operation = "stat"
	OpAccess          Operation = "access"
	OpAppend          Operation = "append"
	OpTruncate        Operation = "truncate"
	OpUtime           Operation = "utime"
	OpCommit          Operation = "commit"
	OpRevisions       Operation = "revisions"
	OpReadRevision    Operation = "read_revision"
	OpRollback        Operation = "rollback"
)

// Operations returns every operation known to the registry.
func Operations() []Operation {
	return []Operation{
		OpWrite, OpRead, OpReadStream, OpWriteStream, OpDelete, OpMove,
		OpCopy, OpCopyBetween, OpFileExists, OpListContents,
		OpCreateDirectory, OpDeleteDirectory, OpClear, OpSetVisibility,
		OpVisibility, OpStat, OpAccess, OpAppend, OpTruncate, OpUtime,
		OpCommit, OpRevisions, OpReadRevision, OpRollback,
	}
}
