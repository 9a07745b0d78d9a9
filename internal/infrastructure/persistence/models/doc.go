// Package models contains the GORM models for the adapter tables.
// Domain types stay free of ORM tags; repositories map between the two.
package models
