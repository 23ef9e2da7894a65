// Package simplesites provides the ingestion-and-publishing pipeline
// for zip-archived static sites: authorize an upload against a shared
// secret, stage the archive behind a presigned write credential, extract
// it entry-by-entry into per-tenant object storage, and return the
// tenant's public URL.
//
// It exposes a single Service interface with two operations,
// AuthorizeUpload and Publish. Blob storage backends (memory, S3) are
// provided under subpackages; the HTTP surface lives in the api
// subpackage and the stateless per-request host rewrite in edge.
//
// The pipeline is deliberately stateless: a tenant exists only as a key
// prefix in the object store, chosen with enough randomness that
// collisions are treated as never occurring. Partial extraction failures
// leave already-written objects in place and surface an error; callers
// decide whether to retry.
package simplesites
