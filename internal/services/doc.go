// Package services holds the shared error taxonomy used by the settings
// save boundary and the service controllers.
package services
