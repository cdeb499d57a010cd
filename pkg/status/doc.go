/*
Package status records what happened to each file during a relink run.

🎯 Purpose:
- Gives every visited file an explicit outcome instead of silently dropping failures
- Keeps change records in walk order for the final report
- Formats the stable "Changed files" summary and the verbose per-file lines

📊 Outcomes:
  - changed: at least one rule changed the content and the file was written back
  - unchanged: the rules left the content byte for byte identical
  - skipped-unreadable: opening, reading or writing failed
  - skipped-undecodable: the content is not valid UTF-8

🔍 Example:

	report := status.NewReport()
	report.Add(status.FileResult{Path: "docs/index.html", Outcome: status.OutcomeChanged})
	_ = status.WriteSummary(os.Stdout, report)
	// Changed files: 1
	// - docs/index.html
*/
package status
