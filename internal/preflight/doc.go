// Package preflight checks that the directories, credential file and external
// binaries a command needs are in place before it starts cutting video.
//
// RunAll backs the "bilistage status" command; commands that upload call
// CheckCredential on their own so a missing cookie file fails before any
// ffmpeg work is wasted.
package preflight
