// Package core provides the domain models for local-pdf: capability module
// descriptors, cache entries, processing jobs, and the shared error taxonomy.
package core
