// Package operator asks a human which resolved candidates to download.
//
// Two implementations of [Operator] exist:
//
//   - [Prompt] prints a numbered listing and reads whitespace separated
//     indices from a line based reader, re-prompting until the input is valid
//   - [Picker] is a Bubble Tea list where space toggles a candidate, enter
//     confirms and n skips the query
//
// Both return a [Selection]. A skipped selection means the query is recorded
// as unresolved by the caller.
//
//	op := operator.NewPrompt(os.Stdin, os.Stdout)
//	sel, err := op.Select(ctx, "Foo - Song One", candidates)
package operator
