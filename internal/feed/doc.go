// Package feed holds the pagination state of the gallery: the controller
// that owns the query session, the debouncer for search input, and the
// detector that turns "last cell is visible" into a request for the next
// page. Nothing in here depends on the GUI toolkit.
package feed
