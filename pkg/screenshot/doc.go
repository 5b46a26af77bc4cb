// Package screenshot reconciles screenshot files on disk with the catalog.
//
// Screenshot file names carry the snapshot identifier in percent-encoded form.
// Two naming schemes exist side by side in the screenshot archive:
//
//	bel-1389570-nb-webarchive%2F20190911104851%2Fhttps%3A%2F%2Fmuseumsnachtsg.ch.jpg
//	https%3A%2F%2Fwww.example.ch.webp
//
// The first is the archive-URN scheme: the identifier is the URN prefix and
// the rest is the (possibly double-encoded) wayback URL of the capture. In the
// second, plain scheme the whole decoded name is the identifier.
//
// [Decode] maps a file name to its identifier, [Scan] lists candidate files
// and [Match] assigns files to catalog snapshots.
package screenshot
