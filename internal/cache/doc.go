// Package cache manages the working directories under the cache root.
//
// Every workflow run gets a fresh "<name>-<unix seconds>" directory created
// by Create; later commands find the newest run for a name with Latest.
// Names are NFC-normalized so titles typed on different systems resolve to
// the same directories. The split packet-stream cache under "split/" keeps
// MPEG-TS parts keyed by episode and part count so a re-run can skip cutting;
// it is guarded by a file lock. Clean removes run directories older than a
// cutoff.
package cache
