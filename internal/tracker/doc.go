// Package tracker persists which files have already been tagged so repeated
// scans skip them. Entries record the file's size and modification time;
// a file that changed on disk is treated as unprocessed again.
package tracker
