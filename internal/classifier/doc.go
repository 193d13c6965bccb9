// Package classifier assigns display categories to tool output lines.
//
// Classification is cosmetic: it drives emphasis in the console renderer and
// never influences how a run proceeds.
package classifier
