// Package hooks provides derived hooks built entirely on the runtime's
// hook primitives and built-in contexts: event subscription, terminal
// size, timers, async work, undo history, and small utilities.
//
// Nothing here reaches into reconciler or arena internals; the package
// is written against the same extension surface available to any
// downstream library.
package hooks
