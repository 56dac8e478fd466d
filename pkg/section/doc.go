// Package section splits a SIMASM document into named sections.
//
// A section starts at a marker comment and runs until the line before the
// next marker, or to the end of the document for the last one:
//
//	; --- INIT ---
//	START:  LDWI R0, 5
//	; --- LOOP ---
//	        JMP START
//
// Marker syntax is a comment introducer, a delimiter run of at least three
// copies of one punctuation character, a free-text name and a closing run of
// at least three copies of the same character. Lines before the first marker belong to no section.
//
// Extraction is two-pass: the first pass records marker positions and names,
// the second slices the recorded ranges into section content. A document
// without markers yields an empty slice; callers render a placeholder
// explaining the marker syntax instead of treating it as an error.
package section
