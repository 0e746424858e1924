// Package model defines shared data types used across the Recall stream client.
//
// Conventions:
//   - Timestamps: time.Time (RFC 3339 on the wire)
//   - Progress: float64 fraction in [0, 1]
//   - IDs: uuid.UUID for jobs, string slugs for projects and providers
package model
