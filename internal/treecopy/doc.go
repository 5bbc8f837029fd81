// Package treecopy recursively copies directory trees.
//
// Only content, permission bits and access/modification times are carried
// over. Extended attributes and ACLs are never copied: the sources are short
// lived clone directories and propagating their security labels to the
// destination is not wanted.
//
// Failures on individual entries do not stop the copy. All siblings are
// attempted and the collected failures are returned as a single *Error.
package treecopy
