// Package model holds the domain entities shared by repositories,
// services and handlers.
package model
