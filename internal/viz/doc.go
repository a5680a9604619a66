// Package viz renders registration passes for the terminal: a styled table
// of the registration order and an ASCII plot of tree level against
// registration position.
package viz
