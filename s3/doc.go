// Package s3 implements the opfsgo capability contract over an S3 bucket
// prefix.
//
// Directories are key prefixes, materialized by a zero-byte marker object
// whose key ends in "/" (the usual object-store convention). Files are plain
// objects. Enumeration uses ListObjectsV2 with a "/" delimiter, so only the
// immediate children of a prefix are listed.
//
// # Write Policy
//
// Objects are immutable, so a writable stream buffers content locally with
// the same cursor-rebuild policy as the reference in-memory backend and
// uploads the full object on Close. With KeepExistingData=true the current
// object is downloaded when the stream is created.
//
// S3's NoSuchKey/NotFound errors map onto opfsgo.ErrNotFound; everything else
// (throttling, access denied, connectivity) passes through opaquely.
package s3
