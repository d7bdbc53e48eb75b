// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the file or package involved
// and hints for fixing it. The issue catalog holds Markdown guidance for the
// failures users hit most often, rendered with glamour by the CLI.
package issue
