// Package parse classifies the lines of an extracted start list and turns
// participant lines into records.
//
// Each line goes through the same pipeline:
//
//  1. [HeaderDetector] recognises class headers ("J 15 år  5 km, fri") and
//     updates the pass's current class.
//  2. [Fields] splits the line into column candidates on runs of two or more
//     spaces.
//  3. [Assemble] maps the candidates onto bib, name, club and start time.
//  4. [Validator] rejects candidates whose bib is not numeric or whose start
//     time has no colon, and optionally those without the marker substring.
//
// A [Pass] owns the current class for exactly one document. Create a new one
// with [NewPass] for every document:
//
//	pass := parse.NewPass(parse.DefaultConfig())
//	for _, line := range lines {
//	    if rec, outcome := pass.Line(line); outcome == parse.OutcomeRecord {
//	        records = append(records, rec)
//	    }
//	}
//
// Lines that do not become records are not errors. Every discard is reported
// as a named [Outcome] and counted in [Stats].
package parse
