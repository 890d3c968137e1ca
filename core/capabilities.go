package core

// Supports reports whether the adapter can carry out the operation.
//
// The check has two stages. First, an operation in the adapter's declared
// unsupported set is refused outright: a backend may structurally implement
// a method yet disable it for policy reasons. Second, the operation's
// realizing interface is checked structurally; operations required by the
// Adapter interface itself always pass this stage.
//
// Every facade operation consults Supports before touching the backend, so
// unsupported-operation detection is never inferred from an error payload.
func Supports(a Adapter, op Operation) bool {
	for _, unsupported := range a.UnsupportedOperations() {
		if unsupported == op {
			return false
		}
	}

	switch op {
	case OpWrite, OpRead, OpDelete, OpMove, OpCopy, OpFileExists,
		OpListContents, OpCreateDirectory, OpDeleteDirectory, OpClear:
		return true
	case OpReadStream:
		_, ok := a.(StreamReader)
		return ok
	case OpWriteStream:
		_, ok := a.(StreamWriter)
		return ok
	case OpStat:
		_, ok := a.(Statter)
		return ok
	case OpAccess:
		_, ok := a.(Accessor)
		return ok
	case OpAppend:
		_, ok := a.(Appender)
		return ok
	case OpTruncate:
		_, ok := a.(Truncater)
		return ok
	case OpUtime:
		_, ok := a.(TimeSetter)
		return ok
	case OpSetVisibility, OpVisibility:
		_, ok := a.(VisibilityFS)
		return ok
	case OpCopyBetween:
		_, ok := a.(CrossCopier)
		return ok
	case OpCommit, OpRevisions, OpReadRevision, OpRollback:
		_, ok := a.(Versioner)
		return ok
	default:
		return false
	}
}
