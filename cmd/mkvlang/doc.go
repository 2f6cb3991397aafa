// Command mkvlang tags audio and subtitle track languages in Matroska files
// using speech recognition and subtitle analysis.
package main
