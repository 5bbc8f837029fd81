// Package workspace manages the ephemeral directory each repository is cloned into.
//
// Directories are named gitbatch-<timestamp>-<id> below the base directory
// (os.TempDir by default) and are removed completely after use. Scoped binds
// that lifetime to a single function call.
package workspace
