// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing errors with remediation hints and a
// catalog of Markdown guidance rendered with glamour for the common failure
// classes of the CLI.
package issue
