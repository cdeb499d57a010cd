/*
Package operation implements the link rewrite over a directory tree.

	+-------------+
	|    Walk     |
	| (root, ext) |
	+------+------+
	       |
	+------+------+
	|   Rewrite   |
	|   (rules)   |
	+------+------+
	       |
	+------+------+
	|   Report    |
	|  (status)   |
	+-------------+

🎯 Purpose:
- Walks the configured root in lexical order, one file at a time
- Runs the ordered rule list over every file with a recognized extension
- Writes a file back, whole and in place, only when its bytes changed
- Records an outcome for every candidate file

🔄 Flow:
1. Stat the root. A missing or unreadable root is the only fatal error.
2. Skip ignored paths, directories and files without a recognized extension.
3. Read the file through a UTF-8 validator. Invalid text is skipped.
4. Apply the rules, compare, write back if changed.
5. Add a status.FileResult to the report.

⚡ Error handling:
Per-file failures never stop the run. They end up on the report as
skipped-unreadable or skipped-undecodable with the cause attached.

🔍 Example:

	op, err := operation.NewRewriteOperation(ctx, operation.Options{Config: cfg})
	if err != nil {
		return err
	}
	report, err := operation.NewRunner(zerolog.Ctx(ctx)).Run(ctx, op)
*/
package operation
