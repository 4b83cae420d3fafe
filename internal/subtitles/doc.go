// Package subtitles compiles caption segments and a normalized style into an
// Advanced SubStation Alpha (ASS) document. Compilation is a pure function of
// its inputs so identical requests produce byte-identical documents.
package subtitles
