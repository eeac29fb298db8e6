// Package calculator runs one interactive session of a calculator schema.
//
// A Calculator owns the session's variables and nothing else: formulas,
// components and layout come from an immutable config.Model. Every read
// works on a snapshot of the variables, so Render and the evaluation helpers
// are safe to call while another goroutine updates a value.
package calculator
