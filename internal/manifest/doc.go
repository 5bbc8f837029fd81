// Package manifest parses batch files into repository specs.
//
// A batch file is line oriented. Blank lines and lines starting with "#" are
// ignored; every other line has exactly three semicolon separated fields:
//
//	<url>;<branch>[:<subpath>];<destination>
//
// Any malformed line aborts parsing; no partial result is returned.
package manifest
