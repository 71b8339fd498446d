// Package entities holds the kingdom data model shared by the engine,
// repositories and orchestrators.
package entities
