// package models defines the data model for the Pollster.fm backend service
package models
