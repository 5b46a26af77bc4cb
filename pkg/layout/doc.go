// Package layout partitions an ordered list of screenshots into a two-level
// grid and assigns every screenshot its pixel rectangle.
//
// Screenshots are laid out left to right, top to bottom, RowSize per row.
// Consecutive rows are grouped into super-rows of SuperRowSize rows; each
// super-row is one [Block], the unit of work handed to the external
// compositor. RowSize x SuperRowSize therefore bounds the number of images a
// single compositor invocation has to hold.
//
// When RowSize is not given it is derived from the number of placed files so
// the collage is roughly square. When SuperRowSize is not given it is derived
// so a block holds at most ItemsPerSuperRow images.
//
// The [Planner] is a small state machine:
//
//	Planning --Next--> Emitting(0) --Next--> Emitting(1) ... --Next--> Done
//
// Every call to [Planner.Next] emits one block. [Compute] runs the planner to
// completion and returns the whole [Plan].
package layout
