// Package model defines the data structures shared by every stage of the
// start list pipeline.
//
// Extraction collaborators produce [Page] values (one per document page, each
// holding its raw text lines in order). The line classification engine turns
// those lines into [Record] values, and the dataset builder arranges records
// into a ranked [Dataset].
//
// # Records
//
// A [Record] is created once per valid participant line and is immutable
// afterwards except for its Rank, which is owned by whichever [Dataset]
// holds the record:
//
//	rec := model.Record{Bib: 113, Name: "Edvard Strømsæther", StartTime: "11:56:30"}
//
// Datasets hold records by value, so the filtered dataset can be re-ranked
// without touching the full dataset it was derived from.
//
// # Classes
//
// A [ClassLabel] names the competition class announced by the most recent
// header line. Every processing pass starts at [UnknownClass]; an empty label
// means class tracking was disabled for the pass.
package model
