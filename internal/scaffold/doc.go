// Package scaffold drives the template lifecycle of a monorepo: packing an
// application directory into a template archive and instantiating new
// applications from those archives.
package scaffold
