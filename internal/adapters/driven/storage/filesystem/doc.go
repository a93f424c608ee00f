// Package filesystem places catalog items into the local directory tree.
//
// Layout is {base}/{category slug}/{tag slug}. Creation is idempotent and
// safe to perform concurrently for the same path.
package filesystem
