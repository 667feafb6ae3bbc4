// Package rule matches workspace-relative file paths to profile names
// using CEL expressions.
package rule
