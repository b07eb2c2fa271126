// Package upload drives the external uploader binary.
//
// Flags renders the flat "--flag value" list the uploader accepts. Client
// runs the first file of a batch as a new upload and appends every later
// file to the video identifier scraped from the uploader's stdout. History
// records each uploaded file in SQLite so an interrupted batch resumes by
// appending instead of creating a second video.
package upload
