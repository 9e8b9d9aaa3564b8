// Package export writes rendered pages to a directory or an S3 bucket.
package export
