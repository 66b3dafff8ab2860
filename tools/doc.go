// Package tools defines the contract every invokable tool satisfies and
// the registry that resolves tools by name. The gateway holds tools only
// through the ITool interface, so adding a tool never changes registry or
// router logic.
package tools
