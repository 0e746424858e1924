// Package database provides pgx connection pooling for the event archive.
package database
